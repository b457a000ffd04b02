package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/adapter/metrics"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type Service struct {
	repo    interfaces.InventoryRepository
	journal interfaces.MovementJournal
	logger  logger.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

func NewService(repo interfaces.InventoryRepository, journal interfaces.MovementJournal, logger logger.Logger, m *metrics.Registry) *Service {
	return &Service{
		repo:    repo,
		journal: journal,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]*domain.InventoryItem, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, cmd interfaces.CreateInventoryCommand) (*domain.InventoryItem, error) {
	item, err := domain.NewInventoryItem(cmd.Name, cmd.Quantity, cmd.Unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error("db_insert_failed", "Failed to create inventory item", logger.RequestID(ctx), nil, err)
		return nil, err
	}

	s.logger.Info("inventory_created", "Inventory item created", logger.RequestID(ctx), map[string]interface{}{
		"id":       item.ID,
		"name":     item.Name,
		"quantity": item.Quantity.String(),
	})
	return item, nil
}

// Decrement takes amount from an item. Quantities never go negative: a shortfall is
// clamped, logged and reported on the returned movement.
func (s *Service) Decrement(ctx context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, domain.InventoryMovement, error) {
	requestID := logger.RequestID(ctx)

	if !amount.IsPositive() {
		return nil, domain.InventoryMovement{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	item, prev, err := s.repo.Decrement(ctx, id, amount)
	if err != nil {
		return nil, domain.InventoryMovement{}, err
	}

	m := domain.NewDecrementMovement(id, amount, prev, item.Quantity, s.now())
	s.metrics.InventoryDecrements.Inc()

	if m.Shortfall.IsPositive() {
		s.metrics.InventoryShortfalls.Inc()
		s.logger.Info("inventory_shortfall", "Decrement exceeded stock on hand, clamped at zero", requestID, map[string]interface{}{
			"id":        id,
			"requested": amount.String(),
			"shortfall": m.Shortfall.String(),
		})
	}

	s.record(ctx, m, requestID)
	return item, m, nil
}

func (s *Service) Increment(ctx context.Context, id int, amount decimal.Decimal, reason domain.MovementReason) (*domain.InventoryItem, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}

	item, err := s.repo.Increment(ctx, id, amount)
	if err != nil {
		return nil, err
	}

	s.record(ctx, domain.InventoryMovement{
		InventoryItemID: id,
		Delta:           amount,
		Shortfall:       decimal.Zero,
		Remaining:       item.Quantity,
		Reason:          reason,
		At:              s.now().UTC(),
	}, logger.RequestID(ctx))
	return item, nil
}

// record journals a committed movement. The quantity change already happened, so a
// journal failure is logged and does not fail the request.
func (s *Service) record(ctx context.Context, m domain.InventoryMovement, requestID string) {
	if err := s.journal.Append(ctx, m); err != nil {
		s.logger.Error("journal_append_failed", "Failed to journal inventory movement", requestID,
			map[string]interface{}{"id": m.InventoryItemID, "delta": m.Delta.String()}, err)
		return
	}
	s.logger.Debug("inventory_moved", "Inventory movement recorded", requestID, map[string]interface{}{
		"id":        m.InventoryItemID,
		"delta":     m.Delta.String(),
		"remaining": m.Remaining.String(),
		"reason":    m.Reason,
	})
}
