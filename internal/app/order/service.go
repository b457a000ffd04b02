package order

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/adapter/metrics"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type Service struct {
	repo      interfaces.OrderRepository
	publisher interfaces.EventPublisher
	logger    logger.Logger
	metrics   *metrics.Registry
}

func NewService(repo interfaces.OrderRepository, publisher interfaces.EventPublisher, logger logger.Logger, m *metrics.Registry) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	requestID := logger.RequestID(ctx)

	// 1. Создание доменной сущности (валидация)
	order, err := domain.NewOrder(cmd.CustomerID, cmd.EmployeeID, cmd.MenuItemIDs, cmd.FoodItemIDs, cmd.Total, cmd.Tax, cmd.OrderedAt)
	if err != nil {
		s.logger.Error("validation_failed", "Order validation failed", requestID, nil, err)
		return nil, err
	}

	// 2. Сохранение в БД
	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("db_insert_failed", "Failed to create order", requestID, nil, err)
		return nil, err
	}
	s.metrics.OrdersCreated.Inc()
	s.logger.Debug("order_received", "Order created in DB", requestID, map[string]interface{}{
		"order_id": order.ID,
		"total":    order.Total.String(),
		"guest":    order.IsGuest(),
	})

	// 3. Публикация события. The order is already committed, so a broker outage is logged only.
	s.publish(ctx, domain.EventOrderCreated, order, requestID)

	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// VoidOrder excludes an order from reports. It is how a compensated checkout retracts its order.
func (s *Service) VoidOrder(ctx context.Context, id int) error {
	requestID := logger.RequestID(ctx)

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order.Voided {
		return nil
	}

	if err := s.repo.Void(ctx, id); err != nil {
		s.logger.Error("db_update_failed", "Failed to void order", requestID, map[string]interface{}{"order_id": id}, err)
		return err
	}
	order.Voided = true
	s.metrics.OrdersVoided.Inc()

	s.logger.Info("order_voided", "Order voided", requestID, map[string]interface{}{"order_id": id})
	s.publish(ctx, domain.EventOrderVoided, order, requestID)
	return nil
}

func (s *Service) publish(ctx context.Context, event domain.EventType, order *domain.Order, requestID string) {
	msg := interfaces.OrderEvent{
		Type:        event,
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		EmployeeID:  order.EmployeeID,
		MenuItemIDs: order.MenuItemIDs,
		Total:       order.Total,
		Tax:         order.Tax,
		Timestamp:   time.Now().UTC(),
	}

	if err := s.publisher.PublishOrderEvent(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish order event", requestID,
			map[string]interface{}{"order_id": order.ID, "event": event}, err)
		return
	}
	s.logger.Debug("order_published", "Order event published to RabbitMQ", requestID,
		map[string]interface{}{"order_id": order.ID, "event": event})
}
