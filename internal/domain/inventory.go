package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a raw stock unit (buns, patties, cups) counted in its own unit.
type InventoryItem struct {
	ID       int
	Name     string
	Quantity decimal.Decimal
	Unit     string
}

// NewInventoryItem creates a manager-entered inventory item with business rules applied
func NewInventoryItem(name string, quantity decimal.Decimal, unit string) (*InventoryItem, error) {
	item := &InventoryItem{
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
		Unit:     strings.TrimSpace(unit),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *InventoryItem) Validate() error {
	if len(i.Name) < 1 || len(i.Name) > 100 {
		return errors.New("inventory item name must be 1-100 characters")
	}
	if i.Quantity.IsNegative() {
		return errors.New("inventory quantity must not be negative")
	}
	if len(i.Unit) > 20 {
		return errors.New("inventory unit must not exceed 20 characters")
	}
	return nil
}

// Supports reports whether the remaining quantity still covers one more use of amount.
func (i *InventoryItem) Supports(amount decimal.Decimal) bool {
	return !i.Quantity.LessThan(amount)
}

type MovementReason string

const (
	MovementSale       MovementReason = "sale"
	MovementCompensate MovementReason = "compensation"
	MovementRestock    MovementReason = "restock"
)

// InventoryMovement is one committed change to an inventory quantity.
// Delta is negative for decrements.
type InventoryMovement struct {
	InventoryItemID int             `json:"inventoryitem_id"`
	Delta           decimal.Decimal `json:"delta"`
	Shortfall       decimal.Decimal `json:"shortfall"`
	Remaining       decimal.Decimal `json:"remaining"`
	Reason          MovementReason  `json:"reason"`
	At              time.Time       `json:"at"`
}

// NewDecrementMovement describes a sale that took quantity from prev down to remaining.
// When stock ran short the difference is reported as Shortfall.
func NewDecrementMovement(itemID int, requested, prev, remaining decimal.Decimal, at time.Time) InventoryMovement {
	consumed := prev.Sub(remaining)
	return InventoryMovement{
		InventoryItemID: itemID,
		Delta:           consumed.Neg(),
		Shortfall:       requested.Sub(consumed),
		Remaining:       remaining,
		Reason:          MovementSale,
		At:              at.UTC(),
	}
}

// Consumed is the quantity a decrement actually removed.
func (m InventoryMovement) Consumed() decimal.Decimal {
	return m.Delta.Neg()
}
