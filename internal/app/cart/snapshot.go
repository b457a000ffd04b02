package cart

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/domain"
)

// Keys of the persisted cart. Each is an independent string entry.
const (
	KeyItems = "cart/items"
	KeyTotal = "cart/total"
	KeyTax   = "cart/tax"
)

// ItemSnapshot is the plain, persisted form of a ComposedItem.
type ItemSnapshot struct {
	MenuItemID  int             `json:"menuitem_id"`
	Name        string          `json:"name"`
	ImageLink   string          `json:"image_link"`
	BasePrice   decimal.Decimal `json:"base_price"`
	FoodItemIDs []int           `json:"fooditem_ids"`
	Total       decimal.Decimal `json:"total"`
}

// Snapshot is a point-in-time copy of the cart.
type Snapshot struct {
	Items []ItemSnapshot  `json:"items"`
	Total decimal.Decimal `json:"total"`
	Tax   decimal.Decimal `json:"tax"`
}

func (c *ComposedItem) snapshot() ItemSnapshot {
	return ItemSnapshot{
		MenuItemID:  c.menuItemID,
		Name:        c.name,
		ImageLink:   c.imageLink,
		BasePrice:   c.basePrice,
		FoodItemIDs: c.FoodItemIDs(),
		Total:       c.total,
	}
}

// restoreItem turns persisted data back into a live line item. The stored total is kept
// as is, so later selection changes adjust from the snapshot value.
func restoreItem(s ItemSnapshot, surcharges domain.SurchargeTable) (*ComposedItem, error) {
	if s.MenuItemID <= 0 {
		return nil, fmt.Errorf("invalid menuitem_id %d", s.MenuItemID)
	}

	ids := make([]int, len(s.FoodItemIDs))
	copy(ids, s.FoodItemIDs)
	sort.Ints(ids)

	return &ComposedItem{
		menuItemID:  s.MenuItemID,
		name:        s.Name,
		imageLink:   s.ImageLink,
		basePrice:   s.BasePrice,
		foodItemIDs: ids,
		total:       s.Total,
		surcharges:  surcharges,
	}, nil
}

func encodeSnapshot(s Snapshot) (map[string]string, error) {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart items: %w", err)
	}

	return map[string]string{
		KeyItems: string(items),
		KeyTotal: s.Total.String(),
		KeyTax:   s.Tax.String(),
	}, nil
}

func decodeItems(raw string) ([]ItemSnapshot, error) {
	var items []ItemSnapshot
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart items: %w", err)
	}
	return items, nil
}
