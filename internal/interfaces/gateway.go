package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/domain"
)

// Collaborators the kiosk reaches over HTTP (Adapter/APIClient).

type OrderGateway interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	VoidOrder(ctx context.Context, id int) error
}

type CatalogGateway interface {
	GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error)
	FoodItemLinkage(ctx context.Context, id int) ([]domain.Consumption, error)
	MenuItemLinkage(ctx context.Context, id int) ([]domain.Consumption, error)
	SetStock(ctx context.Context, kind domain.StockOwnerKind, id int, inStock bool) error
}

type InventoryGateway interface {
	// Decrement returns the updated item and the movement actually applied (clamped at zero).
	Decrement(ctx context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, domain.InventoryMovement, error)
	Increment(ctx context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, error)
}

// LocalStorage is the kiosk's durable string key/value store (Adapter/Pebble).
type LocalStorage interface {
	Get(key string) (string, bool, error)
	// Put writes all entries atomically, overwriting prior values.
	Put(entries map[string]string) error
	Delete(keys ...string) error
}
