package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/domain"
)

// Команды для сервисов
type CreateOrderCommand struct {
	CustomerID  int
	EmployeeID  int
	MenuItemIDs []int
	FoodItemIDs [][]int
	Total       decimal.Decimal
	Tax         decimal.Decimal
	OrderedAt   time.Time
}

type CreateInventoryCommand struct {
	Name     string
	Quantity decimal.Decimal
	Unit     string
}

// Интерфейсы Сервисов (Business Logic)
type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	VoidOrder(ctx context.Context, id int) error
}

type CatalogService interface {
	ListFoodItems(ctx context.Context, month time.Month) ([]*domain.FoodItem, error)
	ListMenuItems(ctx context.Context) ([]*domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error)
	FoodItemLinkage(ctx context.Context, id int) ([]domain.Consumption, error)
	MenuItemLinkage(ctx context.Context, id int) ([]domain.Consumption, error)
	SetStock(ctx context.Context, kind domain.StockOwnerKind, id int, inStock bool) error
}

type InventoryService interface {
	List(ctx context.Context) ([]*domain.InventoryItem, error)
	Create(ctx context.Context, cmd CreateInventoryCommand) (*domain.InventoryItem, error)
	Decrement(ctx context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, domain.InventoryMovement, error)
	Increment(ctx context.Context, id int, amount decimal.Decimal, reason domain.MovementReason) (*domain.InventoryItem, error)
}

type ReportService interface {
	XReport(ctx context.Context) (*domain.XReport, error)
	ZReport(ctx context.Context) (*domain.ZReport, error)
	ListZReports(ctx context.Context, limit int) ([]*domain.ZReport, error)
}
