package cart

import (
	"context"
	"errors"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

// Resolver answers what inventory a food or menu item consumes per sale.
// Missing linkage is an empty list, and so is an item the catalog no longer knows.
// In lenient mode other lookup failures are logged and also read as empty; strict mode
// returns them.
type Resolver struct {
	catalog interfaces.CatalogGateway
	strict  bool
	logger  logger.Logger
}

func NewResolver(catalog interfaces.CatalogGateway, strict bool, log logger.Logger) *Resolver {
	return &Resolver{catalog: catalog, strict: strict, logger: log}
}

func (r *Resolver) FoodItemConsumption(ctx context.Context, id int) ([]domain.Consumption, error) {
	lines, err := r.catalog.FoodItemLinkage(ctx, id)
	return r.settle(string(domain.StockOwnerFood), id, lines, err)
}

func (r *Resolver) MenuItemConsumption(ctx context.Context, id int) ([]domain.Consumption, error) {
	lines, err := r.catalog.MenuItemLinkage(ctx, id)
	return r.settle(string(domain.StockOwnerMenu), id, lines, err)
}

func (r *Resolver) settle(kind string, id int, lines []domain.Consumption, err error) ([]domain.Consumption, error) {
	if errors.Is(err, domain.ErrNotFound) {
		r.logger.Debug("bom_lookup_missing", "No inventory linkage for item", "",
			map[string]interface{}{"kind": kind, "id": id})
		return []domain.Consumption{}, nil
	}
	if err != nil {
		r.logger.Error("bom_lookup_failed", "Failed to resolve inventory linkage", "",
			map[string]interface{}{"kind": kind, "id": id, "strict": r.strict}, err)
		if r.strict {
			return nil, err
		}
		return []domain.Consumption{}, nil
	}
	if lines == nil {
		return []domain.Consumption{}, nil
	}
	return lines, nil
}
