package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

// Owner is the food or menu item whose sale caused a movement.
type Owner struct {
	Kind domain.StockOwnerKind
	ID   int
}

// Movement is one applied inventory decrement, kept so a failed checkout can undo it.
type Movement struct {
	Owner           Owner
	InventoryItemID int
	Requested       decimal.Decimal
	Consumed        decimal.Decimal
	Remaining       decimal.Decimal
	FlippedOut      bool
}

// Stocker applies bill-of-materials consumption against the inventory collaborators.
type Stocker struct {
	resolver  *Resolver
	inventory interfaces.InventoryGateway
	catalog   interfaces.CatalogGateway
	logger    logger.Logger
}

func NewStocker(resolver *Resolver, inventory interfaces.InventoryGateway, catalog interfaces.CatalogGateway, log logger.Logger) *Stocker {
	return &Stocker{
		resolver:  resolver,
		inventory: inventory,
		catalog:   catalog,
		logger:    log,
	}
}

// consume decrements one inventory line and flips the owner out of stock when what is left
// no longer covers another sale. A non-nil movement means the decrement landed, even if the
// stock flag update then failed.
func (s *Stocker) consume(ctx context.Context, owner Owner, line domain.Consumption) (*Movement, error) {
	item, applied, err := s.inventory.Decrement(ctx, line.InventoryItemID, line.Amount)
	if err != nil {
		return nil, fmt.Errorf("decrement inventory item %d: %w", line.InventoryItemID, err)
	}

	m := &Movement{
		Owner:           owner,
		InventoryItemID: line.InventoryItemID,
		Requested:       line.Amount,
		Consumed:        applied.Consumed(),
		Remaining:       item.Quantity,
	}

	if applied.Shortfall.IsPositive() {
		s.logger.Info("inventory_shortfall", "Inventory ran short during sale", "", map[string]interface{}{
			"inventory_item_id": line.InventoryItemID,
			"requested":         line.Amount.String(),
			"shortfall":         applied.Shortfall.String(),
		})
	}

	if item.Supports(line.Amount) {
		return m, nil
	}

	if err := s.catalog.SetStock(ctx, owner.Kind, owner.ID, false); err != nil {
		return m, fmt.Errorf("mark %s %d out of stock: %w", owner.Kind, owner.ID, err)
	}
	m.FlippedOut = true

	s.logger.Debug("stock_flipped", "Item marked out of stock", "", map[string]interface{}{
		"kind":              owner.Kind,
		"id":                owner.ID,
		"inventory_item_id": line.InventoryItemID,
		"remaining":         item.Quantity.String(),
	})
	return m, nil
}

// Compensate reverses movements newest first: the consumed quantity is restored and a
// flipped owner is put back in stock if the restored quantity covers its amount again.
// Every movement is attempted; failures are joined.
func (s *Stocker) Compensate(ctx context.Context, movements []Movement) error {
	var errs []error

	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		if !m.Consumed.IsPositive() && !m.FlippedOut {
			continue
		}

		item, err := s.inventory.Increment(ctx, m.InventoryItemID, m.Consumed)
		if err != nil {
			errs = append(errs, fmt.Errorf("restore inventory item %d: %w", m.InventoryItemID, err))
			continue
		}

		if m.FlippedOut && item.Supports(m.Requested) {
			if err := s.catalog.SetStock(ctx, m.Owner.Kind, m.Owner.ID, true); err != nil {
				errs = append(errs, fmt.Errorf("restore stock flag of %s %d: %w", m.Owner.Kind, m.Owner.ID, err))
			}
		}
	}

	return errors.Join(errs...)
}
