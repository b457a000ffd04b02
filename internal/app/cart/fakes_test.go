package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type memStore struct {
	mu        sync.Mutex
	data      map[string]string
	putErr    error
	deleteErr error
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (s *memStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Put(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	for k, v := range entries {
		s.data[k] = v
	}
	return nil
}

func (s *memStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

type stockKey struct {
	kind domain.StockOwnerKind
	id   int
}

type fakeCatalog struct {
	food      map[int][]domain.Consumption
	menu      map[int][]domain.Consumption
	stock     map[stockKey]bool
	linkErr   error
	stockCall int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		food:  map[int][]domain.Consumption{},
		menu:  map[int][]domain.Consumption{},
		stock: map[stockKey]bool{},
	}
}

func (c *fakeCatalog) GetMenuItem(_ context.Context, id int) (*domain.MenuItem, error) {
	return nil, domain.ErrNotFound
}

func (c *fakeCatalog) FoodItemLinkage(_ context.Context, id int) ([]domain.Consumption, error) {
	if c.linkErr != nil {
		return nil, c.linkErr
	}
	return c.food[id], nil
}

func (c *fakeCatalog) MenuItemLinkage(_ context.Context, id int) ([]domain.Consumption, error) {
	if c.linkErr != nil {
		return nil, c.linkErr
	}
	return c.menu[id], nil
}

func (c *fakeCatalog) SetStock(_ context.Context, kind domain.StockOwnerKind, id int, inStock bool) error {
	c.stockCall++
	c.stock[stockKey{kind, id}] = inStock
	return nil
}

// inStock treats items never touched as in stock.
func (c *fakeCatalog) inStock(kind domain.StockOwnerKind, id int) bool {
	v, ok := c.stock[stockKey{kind, id}]
	return !ok || v
}

type fakeInventory struct {
	qty        map[int]decimal.Decimal
	failOn     map[int]bool
	decrements int
}

func newFakeInventory(qty map[int]decimal.Decimal) *fakeInventory {
	return &fakeInventory{qty: qty, failOn: map[int]bool{}}
}

var errInventoryDown = errors.New("inventory unavailable")

func (f *fakeInventory) Decrement(_ context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, domain.InventoryMovement, error) {
	if f.failOn[id] {
		return nil, domain.InventoryMovement{}, errInventoryDown
	}
	f.decrements++

	prev := f.qty[id]
	rem := prev.Sub(amount)
	if rem.IsNegative() {
		rem = decimal.Zero
	}
	f.qty[id] = rem

	return &domain.InventoryItem{ID: id, Quantity: rem},
		domain.NewDecrementMovement(id, amount, prev, rem, time.Now()), nil
}

func (f *fakeInventory) Increment(_ context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, error) {
	f.qty[id] = f.qty[id].Add(amount)
	return &domain.InventoryItem{ID: id, Quantity: f.qty[id]}, nil
}

type fakeOrders struct {
	created []interfaces.CreateOrderCommand
	voided  []int
	err     error
}

func (o *fakeOrders) CreateOrder(_ context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	if o.err != nil {
		return nil, o.err
	}
	o.created = append(o.created, cmd)
	return &domain.Order{ID: len(o.created), MenuItemIDs: cmd.MenuItemIDs, Total: cmd.Total, Tax: cmd.Tax}, nil
}

func (o *fakeOrders) VoidOrder(_ context.Context, id int) error {
	o.voided = append(o.voided, id)
	return nil
}
