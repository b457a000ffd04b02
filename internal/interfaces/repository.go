package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/domain"
)

// Интерфейсы Репозиториев (Adapter/Postgres)
type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	FindByID(ctx context.Context, id int) (*domain.InventoryItem, error)
	ListAll(ctx context.Context) ([]*domain.InventoryItem, error)
	// Decrement subtracts amount in one statement, clamping at zero, and returns the
	// updated item together with the quantity it had before.
	Decrement(ctx context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, decimal.Decimal, error)
	Increment(ctx context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, error)
}

type FoodItemRepository interface {
	ListAll(ctx context.Context) ([]*domain.FoodItem, error)
	FindByID(ctx context.Context, id int) (*domain.FoodItem, error)
	SetInStock(ctx context.Context, id int, inStock bool) error
}

type MenuItemRepository interface {
	ListAll(ctx context.Context) ([]*domain.MenuItem, error)
	FindByID(ctx context.Context, id int) (*domain.MenuItem, error)
	SetInStock(ctx context.Context, id int, inStock bool) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	Void(ctx context.Context, id int) error
}

type ReportRepository interface {
	HourlySales(ctx context.Context, since, until time.Time) ([]domain.HourlySales, error)
	// LastClose returns nil when no period was ever closed.
	LastClose(ctx context.Context) (*domain.ZReport, error)
	// ClosePeriod totals the open period up to closedAt and records it as a Z report.
	// Concurrent closes are serialised so no sale lands in two periods.
	ClosePeriod(ctx context.Context, closedAt time.Time) (*domain.ZReport, error)
	ListCloses(ctx context.Context, limit int) ([]*domain.ZReport, error)
}

// Cache is a read-through store for catalog listings (Adapter/Redis).
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// MovementJournal records every committed inventory movement (Adapter/Kafka).
type MovementJournal interface {
	Append(ctx context.Context, m domain.InventoryMovement) error
}
