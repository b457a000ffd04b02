package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/domain"
)

// Сообщения RabbitMQ
type OrderEvent struct {
	Type        domain.EventType `json:"type"`
	OrderID     int              `json:"order_id"`
	CustomerID  int              `json:"customer_id"`
	EmployeeID  int              `json:"employee_id"`
	MenuItemIDs []int            `json:"menuitem_ids"`
	Total       decimal.Decimal  `json:"total"`
	Tax         decimal.Decimal  `json:"tax"`
	Timestamp   time.Time        `json:"timestamp"`
}

type StockEvent struct {
	Type      domain.EventType      `json:"type"`
	Kind      domain.StockOwnerKind `json:"kind"`
	ItemID    int                   `json:"item_id"`
	InStock   bool                  `json:"in_stock"`
	Timestamp time.Time             `json:"timestamp"`
}

// Интерфейсы Messaging (Adapter/RabbitMQ)
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, msg OrderEvent) error
	PublishStockEvent(ctx context.Context, msg StockEvent) error
}

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, routingKey string, body []byte) error
