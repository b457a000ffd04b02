package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

var ErrIndexOutOfRange = errors.New("cart index out of range")

// Cart owns the composed items of the active session. Every mutation recomputes the total
// from the items, derives tax from it and overwrites the persisted snapshot.
type Cart struct {
	mu sync.Mutex

	items []*ComposedItem
	total decimal.Decimal
	tax   decimal.Decimal

	taxRate    decimal.Decimal
	surcharges domain.SurchargeTable
	store      interfaces.LocalStorage
	logger     logger.Logger
}

func New(store interfaces.LocalStorage, surcharges domain.SurchargeTable, taxRate decimal.Decimal, log logger.Logger) *Cart {
	return &Cart{
		total:      decimal.Zero,
		tax:        decimal.Zero,
		taxRate:    taxRate,
		surcharges: surcharges,
		store:      store,
		logger:     log,
	}
}

// Surcharges is the price table new line items should be composed with.
func (c *Cart) Surcharges() domain.SurchargeTable { return c.surcharges }

func (c *Cart) Add(item *ComposedItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]*ComposedItem, 0, len(c.items)+1)
	items = append(append(items, c.items...), item)
	return c.commit(items)
}

// Remove drops the item at index. An index outside the cart is rejected and nothing changes.
func (c *Cart) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(c.items))
	}

	items := make([]*ComposedItem, 0, len(c.items)-1)
	items = append(append(items, c.items[:index]...), c.items[index+1:]...)
	return c.commit(items)
}

func (c *Cart) Empty() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(nil)
}

func (c *Cart) MenuIDs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int, 0, len(c.items))
	for _, item := range c.items {
		ids = append(ids, item.MenuItemID())
	}
	return ids
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *Cart) Tax() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tax
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Restore reloads persisted state. Items are rebuilt as live line items while total and tax
// come from their stored values rather than a recompute.
func (c *Cart) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok, err := c.store.Get(KeyItems)
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}
	if !ok {
		c.items, c.total, c.tax = nil, decimal.Zero, decimal.Zero
		return nil
	}

	snaps, err := decodeItems(raw)
	if err != nil {
		return err
	}

	items := make([]*ComposedItem, 0, len(snaps))
	for i, s := range snaps {
		item, err := restoreItem(s, c.surcharges)
		if err != nil {
			return fmt.Errorf("cart item %d: %w", i, err)
		}
		items = append(items, item)
	}

	total, err := c.storedScalar(KeyTotal)
	if err != nil {
		return err
	}
	tax, err := c.storedScalar(KeyTax)
	if err != nil {
		return err
	}

	c.items = items
	c.total = total
	c.tax = tax

	c.logger.Info("cart_restored", "Cart restored from local storage", "", map[string]interface{}{
		"items": len(items),
		"total": total.String(),
	})
	return nil
}

// Checkout runs fn with the cart locked so no mutation interleaves with an in-flight
// checkout. The cart is emptied only when fn reports clear. The order already exists at
// that point, so a failure to wipe the stored copy is logged and the cart is still
// emptied in memory.
func (c *Cart) Checkout(fn func(snapshot Snapshot, items []*ComposedItem) (clear bool, err error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]*ComposedItem, len(c.items))
	copy(items, c.items)

	clear, err := fn(c.snapshot(), items)
	if clear {
		if cerr := c.commit(nil); cerr != nil {
			c.logger.Error("cart_clear_failed", "Checked-out cart is still in local storage", "",
				map[string]interface{}{"items": len(items)}, cerr)
			c.items, c.total, c.tax = nil, decimal.Zero, decimal.Zero
		}
	}
	return err
}

func (c *Cart) snapshot() Snapshot {
	s := Snapshot{
		Items: make([]ItemSnapshot, 0, len(c.items)),
		Total: c.total,
		Tax:   c.tax,
	}
	for _, item := range c.items {
		s.Items = append(s.Items, item.snapshot())
	}
	return s
}

// commit persists items with their recomputed totals and only then makes them the
// cart's state. An empty cart leaves nothing behind.
func (c *Cart) commit(items []*ComposedItem) error {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total())
	}
	tax := domain.Tax(total, c.taxRate)

	if len(items) == 0 {
		if err := c.store.Delete(KeyItems, KeyTotal, KeyTax); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		items = nil
	} else {
		snap := Snapshot{Items: make([]ItemSnapshot, 0, len(items)), Total: total, Tax: tax}
		for _, item := range items {
			snap.Items = append(snap.Items, item.snapshot())
		}
		entries, err := encodeSnapshot(snap)
		if err != nil {
			return err
		}
		if err := c.store.Put(entries); err != nil {
			return fmt.Errorf("failed to persist cart: %w", err)
		}
	}

	c.items, c.total, c.tax = items, total, tax
	return nil
}

func (c *Cart) storedScalar(key string) (decimal.Decimal, error) {
	raw, ok, err := c.store.Get(key)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
