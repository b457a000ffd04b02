package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FoodType string

const (
	FoodTypeEntree    FoodType = "Entree"
	FoodTypeSide      FoodType = "Side"
	FoodTypeAppetizer FoodType = "Appetizer"
	FoodTypeDrink     FoodType = "Drink"
	FoodTypeDessert   FoodType = "Dessert"
)

func (t FoodType) Valid() bool {
	switch t {
	case FoodTypeEntree, FoodTypeSide, FoodTypeAppetizer, FoodTypeDrink, FoodTypeDessert:
		return true
	}
	return false
}

// Consumption is one line of a bill of materials: how much of an inventory item a sale uses.
type Consumption struct {
	InventoryItemID int
	Amount          decimal.Decimal
}

// FoodItem is a selectable component of a menu item (an entree, a side, a drink).
type FoodItem struct {
	ID               int
	Name             string
	Type             FoodType
	InStock          bool
	Seasonal         []int
	InventoryItemIDs []int
	InventoryAmounts []decimal.Decimal
}

// Consumption zips the parallel id/amount columns. Unpaired trailing entries are ignored.
func (f *FoodItem) Consumption() []Consumption {
	n := len(f.InventoryItemIDs)
	if len(f.InventoryAmounts) < n {
		n = len(f.InventoryAmounts)
	}

	out := make([]Consumption, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Consumption{
			InventoryItemID: f.InventoryItemIDs[i],
			Amount:          f.InventoryAmounts[i],
		})
	}
	return out
}

// AvailableIn reports whether the item is offered in the given month.
// An empty seasonal set means all year.
func (f *FoodItem) AvailableIn(month time.Month) bool {
	if len(f.Seasonal) == 0 {
		return true
	}
	for _, m := range f.Seasonal {
		if time.Month(m) == month {
			return true
		}
	}
	return false
}

// MenuItem is a sellable item with a base price and its own packaging consumption.
type MenuItem struct {
	ID               int
	Name             string
	Price            decimal.Decimal
	ImageLink        string
	InventoryItemIDs []int
	InStock          bool
}

// MenuItemUnit is the fixed amount a menu item's own linkage consumes per sale.
var MenuItemUnit = decimal.NewFromInt(1)

func (m *MenuItem) Consumption() []Consumption {
	out := make([]Consumption, 0, len(m.InventoryItemIDs))
	for _, id := range m.InventoryItemIDs {
		out = append(out, Consumption{InventoryItemID: id, Amount: MenuItemUnit})
	}
	return out
}

type StockOwnerKind string

const (
	StockOwnerFood StockOwnerKind = "fooditem"
	StockOwnerMenu StockOwnerKind = "menuitem"
)
