package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type inventoryRepository struct {
	db DB
}

func NewInventoryRepository(db DB) interfaces.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (name, quantity, unit)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, query, item.Name, item.Quantity, item.Unit).Scan(&item.ID); err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

func (r *inventoryRepository) FindByID(ctx context.Context, id int) (*domain.InventoryItem, error) {
	query := `SELECT id, name, quantity, unit FROM inventory_items WHERE id = $1`

	var item domain.InventoryItem
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name, &item.Quantity, &item.Unit)
	if err != nil {
		return nil, notFound(err, "inventory item", id)
	}
	return &item, nil
}

func (r *inventoryRepository) ListAll(ctx context.Context) ([]*domain.InventoryItem, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, quantity, unit FROM inventory_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	items := []*domain.InventoryItem{}
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// Decrement is a single statement so concurrent sales on the same row serialize on its lock.
func (r *inventoryRepository) Decrement(ctx context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, decimal.Decimal, error) {
	query := `
		WITH prev AS (
			SELECT quantity FROM inventory_items WHERE id = $1 FOR UPDATE
		)
		UPDATE inventory_items i
		SET quantity = GREATEST(i.quantity - $2::numeric, 0)
		FROM prev
		WHERE i.id = $1
		RETURNING i.id, i.name, i.quantity, i.unit, prev.quantity
	`

	var (
		item domain.InventoryItem
		prev decimal.Decimal
	)
	err := r.db.QueryRow(ctx, query, id, amount).Scan(&item.ID, &item.Name, &item.Quantity, &item.Unit, &prev)
	if err != nil {
		return nil, decimal.Zero, notFound(err, "inventory item", id)
	}
	return &item, prev, nil
}

func (r *inventoryRepository) Increment(ctx context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, error) {
	query := `
		UPDATE inventory_items
		SET quantity = quantity + $2::numeric
		WHERE id = $1
		RETURNING id, name, quantity, unit
	`

	var item domain.InventoryItem
	err := r.db.QueryRow(ctx, query, id, amount).Scan(&item.ID, &item.Name, &item.Quantity, &item.Unit)
	if err != nil {
		return nil, notFound(err, "inventory item", id)
	}
	return &item, nil
}
