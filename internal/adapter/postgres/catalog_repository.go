package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

// numeric[] is read as text[] and parsed so amounts keep their exact decimal form.
const foodColumns = `id, name, type, in_stock, seasonal, inventoryitem_ids, inventory_amounts::text[]`

type foodItemRepository struct {
	db DB
}

func NewFoodItemRepository(db DB) interfaces.FoodItemRepository {
	return &foodItemRepository{db: db}
}

func scanFoodItem(row Row) (*domain.FoodItem, error) {
	var (
		f       domain.FoodItem
		amounts []string
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Type, &f.InStock, &f.Seasonal, &f.InventoryItemIDs, &amounts); err != nil {
		return nil, err
	}

	f.InventoryAmounts = make([]decimal.Decimal, 0, len(amounts))
	for _, a := range amounts {
		v, err := decimal.NewFromString(a)
		if err != nil {
			return nil, fmt.Errorf("food item %d: invalid inventory amount %q: %w", f.ID, a, err)
		}
		f.InventoryAmounts = append(f.InventoryAmounts, v)
	}
	return &f, nil
}

func (r *foodItemRepository) ListAll(ctx context.Context) ([]*domain.FoodItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+foodColumns+` FROM food_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query food items: %w", err)
	}
	defer rows.Close()

	items := []*domain.FoodItem{}
	for rows.Next() {
		f, err := scanFoodItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food item: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (r *foodItemRepository) FindByID(ctx context.Context, id int) (*domain.FoodItem, error) {
	f, err := scanFoodItem(r.db.QueryRow(ctx, `SELECT `+foodColumns+` FROM food_items WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "food item", id)
	}
	return f, nil
}

func (r *foodItemRepository) SetInStock(ctx context.Context, id int, inStock bool) error {
	return setInStock(ctx, r.db, "food_items", "food item", id, inStock)
}

const menuColumns = `id, name, price, image_link, inventoryitem_ids, in_stock`

type menuItemRepository struct {
	db DB
}

func NewMenuItemRepository(db DB) interfaces.MenuItemRepository {
	return &menuItemRepository{db: db}
}

func scanMenuItem(row Row) (*domain.MenuItem, error) {
	var m domain.MenuItem
	if err := row.Scan(&m.ID, &m.Name, &m.Price, &m.ImageLink, &m.InventoryItemIDs, &m.InStock); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *menuItemRepository) ListAll(ctx context.Context) ([]*domain.MenuItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := []*domain.MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *menuItemRepository) FindByID(ctx context.Context, id int) (*domain.MenuItem, error) {
	m, err := scanMenuItem(r.db.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "menu item", id)
	}
	return m, nil
}

func (r *menuItemRepository) SetInStock(ctx context.Context, id int, inStock bool) error {
	return setInStock(ctx, r.db, "menu_items", "menu item", id, inStock)
}

func setInStock(ctx context.Context, db DB, table, what string, id int, inStock bool) error {
	tag, err := db.Exec(ctx, `UPDATE `+table+` SET in_stock = $2 WHERE id = $1`, id, inStock)
	if err != nil {
		return fmt.Errorf("failed to update %s stock: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
