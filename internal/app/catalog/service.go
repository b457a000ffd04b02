package catalog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/adapter/metrics"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

const (
	foodItemsKey = "catalog:fooditems"
	menuItemsKey = "catalog:menuitems"
)

// Service serves food and menu items, their inventory linkage and stock flags.
// Listings are cached and dropped whenever a stock flag changes.
type Service struct {
	food      interfaces.FoodItemRepository
	menu      interfaces.MenuItemRepository
	cache     interfaces.Cache
	cacheTTL  time.Duration
	publisher interfaces.EventPublisher
	logger    logger.Logger
	metrics   *metrics.Registry
}

func NewService(
	food interfaces.FoodItemRepository,
	menu interfaces.MenuItemRepository,
	cache interfaces.Cache,
	cacheTTL time.Duration,
	publisher interfaces.EventPublisher,
	logger logger.Logger,
	m *metrics.Registry,
) *Service {
	return &Service{
		food:      food,
		menu:      menu,
		cache:     cache,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

// ListFoodItems returns food items offered in month; zero means every item.
func (s *Service) ListFoodItems(ctx context.Context, month time.Month) ([]*domain.FoodItem, error) {
	var items []*domain.FoodItem
	err := s.cached(ctx, foodItemsKey, &items, func() (err error) {
		items, err = s.food.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list food items: %w", err)
	}

	if month == 0 {
		return items, nil
	}
	offered := make([]*domain.FoodItem, 0, len(items))
	for _, f := range items {
		if f.AvailableIn(month) {
			offered = append(offered, f)
		}
	}
	return offered, nil
}

func (s *Service) ListMenuItems(ctx context.Context) ([]*domain.MenuItem, error) {
	var items []*domain.MenuItem
	err := s.cached(ctx, menuItemsKey, &items, func() (err error) {
		items, err = s.menu.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

func (s *Service) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	return s.menu.FindByID(ctx, id)
}

func (s *Service) FoodItemLinkage(ctx context.Context, id int) ([]domain.Consumption, error) {
	f, err := s.food.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return f.Consumption(), nil
}

func (s *Service) MenuItemLinkage(ctx context.Context, id int) ([]domain.Consumption, error) {
	m, err := s.menu.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.Consumption(), nil
}

func (s *Service) SetStock(ctx context.Context, kind domain.StockOwnerKind, id int, inStock bool) error {
	requestID := logger.RequestID(ctx)

	var err error
	switch kind {
	case domain.StockOwnerFood:
		err = s.food.SetInStock(ctx, id, inStock)
	case domain.StockOwnerMenu:
		err = s.menu.SetInStock(ctx, id, inStock)
	default:
		return fmt.Errorf("%w: unknown item kind %q", domain.ErrValidation, kind)
	}
	if err != nil {
		return err
	}

	s.metrics.StockFlips.WithLabelValues(string(kind), strconv.FormatBool(inStock)).Inc()
	if err := s.cache.Invalidate(ctx, foodItemsKey, menuItemsKey); err != nil {
		s.logger.Error("cache_invalidate_failed", "Failed to drop catalog cache", requestID, nil, err)
	}

	s.logger.Info("stock_changed", "Stock flag updated", requestID, map[string]interface{}{
		"kind":     kind,
		"id":       id,
		"in_stock": inStock,
	})

	msg := interfaces.StockEvent{
		Type:      domain.EventStockChanged,
		Kind:      kind,
		ItemID:    id,
		InStock:   inStock,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.PublishStockEvent(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish stock event", requestID,
			map[string]interface{}{"kind": kind, "id": id}, err)
	}
	return nil
}

// cached fills dst from the cache or, on a miss, from load, then stores the result.
// Cache failures degrade to a direct load.
func (s *Service) cached(ctx context.Context, key string, dst any, load func() error) error {
	requestID := logger.RequestID(ctx)

	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Error("cache_read_failed", "Catalog cache read failed", requestID, map[string]interface{}{"key": key}, err)
	}
	if hit {
		s.metrics.CacheHits.Inc()
		return nil
	}
	s.metrics.CacheMisses.Inc()

	if err := load(); err != nil {
		return err
	}

	if err := s.cache.Set(ctx, key, dst, s.cacheTTL); err != nil {
		s.logger.Error("cache_write_failed", "Catalog cache write failed", requestID, map[string]interface{}{"key": key}, err)
	}
	return nil
}
