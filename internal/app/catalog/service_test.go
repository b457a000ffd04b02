package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/adapter/metrics"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type foodRepo struct {
	items map[int]*domain.FoodItem
	lists int
}

func (r *foodRepo) ListAll(context.Context) ([]*domain.FoodItem, error) {
	r.lists++
	out := []*domain.FoodItem{}
	for id := 1; id <= len(r.items); id++ {
		if f, ok := r.items[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *foodRepo) FindByID(_ context.Context, id int) (*domain.FoodItem, error) {
	f, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (r *foodRepo) SetInStock(_ context.Context, id int, inStock bool) error {
	f, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.InStock = inStock
	return nil
}

type menuRepo struct {
	items map[int]*domain.MenuItem
}

func (r *menuRepo) ListAll(context.Context) ([]*domain.MenuItem, error) {
	out := []*domain.MenuItem{}
	for _, m := range r.items {
		out = append(out, m)
	}
	return out, nil
}

func (r *menuRepo) FindByID(_ context.Context, id int) (*domain.MenuItem, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (r *menuRepo) SetInStock(_ context.Context, id int, inStock bool) error {
	m, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.InStock = inStock
	return nil
}

type jsonCache struct {
	data map[string][]byte
}

func (c *jsonCache) Get(_ context.Context, key string, dst any) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *jsonCache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	c.data[key] = b
	return err
}

func (c *jsonCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type stockPublisher struct {
	events []interfaces.StockEvent
}

func (p *stockPublisher) PublishOrderEvent(context.Context, interfaces.OrderEvent) error { return nil }

func (p *stockPublisher) PublishStockEvent(_ context.Context, e interfaces.StockEvent) error {
	p.events = append(p.events, e)
	return nil
}

type fixture struct {
	svc   *Service
	food  *foodRepo
	menu  *menuRepo
	cache *jsonCache
	pub   *stockPublisher
	m     *metrics.Registry
}

func newFixture() *fixture {
	fx := &fixture{
		food: &foodRepo{items: map[int]*domain.FoodItem{
			1: {ID: 1, Name: "Fries", Type: domain.FoodTypeSide, InStock: true,
				InventoryItemIDs: []int{100}, InventoryAmounts: []decimal.Decimal{decimal.RequireFromString("0.25")}},
			2: {ID: 2, Name: "Pumpkin Pie", Type: domain.FoodTypeDessert, InStock: true, Seasonal: []int{10, 11}},
		}},
		menu: &menuRepo{items: map[int]*domain.MenuItem{
			1: {ID: 1, Name: "Burger Meal", Price: decimal.RequireFromString("6.40"), InventoryItemIDs: []int{200, 201}, InStock: true},
		}},
		cache: &jsonCache{data: map[string][]byte{}},
		pub:   &stockPublisher{},
		m:     metrics.NewRegistry(),
	}
	fx.svc = NewService(fx.food, fx.menu, fx.cache, time.Minute, fx.pub, logger.Nop(), fx.m)
	return fx
}

func TestListFoodItems_FiltersBySeason(t *testing.T) {
	fx := newFixture()

	all, err := fx.svc.ListFoodItems(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	june, err := fx.svc.ListFoodItems(context.Background(), time.June)
	require.NoError(t, err)
	require.Len(t, june, 1)
	assert.Equal(t, "Fries", june[0].Name)

	oct, err := fx.svc.ListFoodItems(context.Background(), time.October)
	require.NoError(t, err)
	assert.Len(t, oct, 2)
}

func TestListFoodItems_ServedFromCache(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.ListFoodItems(context.Background(), 0)
	require.NoError(t, err)
	cached, err := fx.svc.ListFoodItems(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 1, fx.food.lists)
	assert.True(t, cached[0].InventoryAmounts[0].Equal(decimal.RequireFromString("0.25")))
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.m.CacheMisses))
}

func TestSetStock_InvalidatesAndPublishes(t *testing.T) {
	fx := newFixture()
	_, err := fx.svc.ListFoodItems(context.Background(), 0)
	require.NoError(t, err)

	require.NoError(t, fx.svc.SetStock(context.Background(), domain.StockOwnerFood, 1, false))

	items, err := fx.svc.ListFoodItems(context.Background(), 0)
	require.NoError(t, err)
	assert.False(t, items[0].InStock)
	assert.Equal(t, 2, fx.food.lists)

	require.Len(t, fx.pub.events, 1)
	assert.Equal(t, domain.StockOwnerFood, fx.pub.events[0].Kind)
	assert.False(t, fx.pub.events[0].InStock)
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.m.StockFlips.WithLabelValues("fooditem", "false")))
}

func TestSetStock_Errors(t *testing.T) {
	fx := newFixture()

	assert.ErrorIs(t, fx.svc.SetStock(context.Background(), "drink", 1, true), domain.ErrValidation)
	assert.ErrorIs(t, fx.svc.SetStock(context.Background(), domain.StockOwnerMenu, 42, true), domain.ErrNotFound)
	assert.Empty(t, fx.pub.events)
}

func TestLinkage(t *testing.T) {
	fx := newFixture()

	food, err := fx.svc.FoodItemLinkage(context.Background(), 2)
	require.NoError(t, err)
	assert.NotNil(t, food)
	assert.Empty(t, food)

	menu, err := fx.svc.MenuItemLinkage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.True(t, menu[1].Amount.Equal(decimal.NewFromInt(1)))

	_, err = fx.svc.MenuItemLinkage(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
