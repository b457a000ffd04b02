package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	selections, err := json.Marshal(order.FoodItemIDs)
	if err != nil {
		return fmt.Errorf("failed to encode fooditem_ids: %w", err)
	}

	query := `
		INSERT INTO orders (customer_id, employee_id, menuitem_ids, fooditem_ids, total, tax, ordered_time)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)
		RETURNING id
	`
	err = r.db.QueryRow(ctx, query,
		order.CustomerID, order.EmployeeID, order.MenuItemIDs, string(selections),
		order.Total, order.Tax, order.OrderedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	query := `
		SELECT id, customer_id, employee_id, menuitem_ids, fooditem_ids::text,
		       total, tax, ordered_time, voided
		FROM orders
		WHERE id = $1
	`

	var (
		order      domain.Order
		selections string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.CustomerID, &order.EmployeeID, &order.MenuItemIDs, &selections,
		&order.Total, &order.Tax, &order.OrderedAt, &order.Voided,
	)
	if err != nil {
		return nil, notFound(err, "order", id)
	}

	if err := json.Unmarshal([]byte(selections), &order.FoodItemIDs); err != nil {
		return nil, fmt.Errorf("order %d: failed to decode fooditem_ids: %w", id, err)
	}
	order.OrderedAt = order.OrderedAt.UTC()
	return &order, nil
}

// Void marks an order so reports skip it. Voiding twice is harmless.
func (r *orderRepository) Void(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET voided = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to void order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
