package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/domain"
)

// ComposedItem is one line of an order: a menu item plus the customer's food item selections.
// The total is adjusted incrementally as selections change; decimal arithmetic keeps it exact.
type ComposedItem struct {
	menuItemID  int
	name        string
	imageLink   string
	basePrice   decimal.Decimal
	foodItemIDs []int
	total       decimal.Decimal
	surcharges  domain.SurchargeTable
}

// NewComposedItem starts a line item at the menu item's base price with no selections
func NewComposedItem(menu *domain.MenuItem, surcharges domain.SurchargeTable) *ComposedItem {
	return &ComposedItem{
		menuItemID:  menu.ID,
		name:        menu.Name,
		imageLink:   menu.ImageLink,
		basePrice:   menu.Price,
		foodItemIDs: []int{},
		total:       menu.Price,
		surcharges:  surcharges,
	}
}

// Compose builds a line item and applies every selection in order
func Compose(menu *domain.MenuItem, foodItemIDs []int, surcharges domain.SurchargeTable) *ComposedItem {
	item := NewComposedItem(menu, surcharges)
	for _, id := range foodItemIDs {
		item.AddFoodItem(id)
	}
	return item
}

// AddFoodItem selects a food item, keeping the selection sorted, and applies its surcharge.
// Selection limits are enforced by the caller.
func (c *ComposedItem) AddFoodItem(foodItemID int) {
	i := sort.SearchInts(c.foodItemIDs, foodItemID)
	c.foodItemIDs = append(c.foodItemIDs, 0)
	copy(c.foodItemIDs[i+1:], c.foodItemIDs[i:])
	c.foodItemIDs[i] = foodItemID

	c.total = c.total.Add(c.surcharges.Lookup(c.menuItemID, foodItemID))
}

// RemoveFoodItem drops the first matching selection and reverses its surcharge.
// It reports false when the id was not selected.
func (c *ComposedItem) RemoveFoodItem(foodItemID int) bool {
	for i, id := range c.foodItemIDs {
		if id != foodItemID {
			continue
		}
		c.foodItemIDs = append(c.foodItemIDs[:i], c.foodItemIDs[i+1:]...)
		c.total = c.total.Sub(c.surcharges.Lookup(c.menuItemID, foodItemID))
		return true
	}
	return false
}

func (c *ComposedItem) Total() decimal.Decimal     { return c.total }
func (c *ComposedItem) BasePrice() decimal.Decimal { return c.basePrice }
func (c *ComposedItem) Name() string               { return c.name }
func (c *ComposedItem) MenuItemID() int            { return c.menuItemID }
func (c *ComposedItem) ImageLink() string          { return c.imageLink }

// FoodItemIDs returns a copy of the sorted selection.
func (c *ComposedItem) FoodItemIDs() []int {
	out := make([]int, len(c.foodItemIDs))
	copy(out, c.foodItemIDs)
	return out
}

// AlterInventory consumes this line item's bill of materials: every selected food item in
// selection order, then the menu item's own linkage. After each decrement the owner is
// flipped out of stock when the remaining quantity no longer covers the amount just used.
// Movements applied before a failure are returned alongside the error; nothing is undone here.
func (c *ComposedItem) AlterInventory(ctx context.Context, s *Stocker) ([]Movement, error) {
	var applied []Movement

	for _, foodID := range c.foodItemIDs {
		lines, err := s.resolver.FoodItemConsumption(ctx, foodID)
		if err != nil {
			return applied, fmt.Errorf("resolve food item %d: %w", foodID, err)
		}

		owner := Owner{Kind: domain.StockOwnerFood, ID: foodID}
		for _, line := range lines {
			m, err := s.consume(ctx, owner, line)
			if m != nil {
				applied = append(applied, *m)
			}
			if err != nil {
				return applied, err
			}
		}
	}

	lines, err := s.resolver.MenuItemConsumption(ctx, c.menuItemID)
	if err != nil {
		return applied, fmt.Errorf("resolve menu item %d: %w", c.menuItemID, err)
	}

	owner := Owner{Kind: domain.StockOwnerMenu, ID: c.menuItemID}
	for _, line := range lines {
		m, err := s.consume(ctx, owner, line)
		if m != nil {
			applied = append(applied, *m)
		}
		if err != nil {
			return applied, err
		}
	}

	return applied, nil
}
