package postgres

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		quantity NUMERIC(12,3) NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		unit VARCHAR(20) NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS food_items (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		type VARCHAR(20) NOT NULL,
		in_stock BOOLEAN NOT NULL DEFAULT true,
		seasonal INTEGER[] NOT NULL DEFAULT '{}',
		inventoryitem_ids INTEGER[] NOT NULL DEFAULT '{}',
		inventory_amounts NUMERIC[] NOT NULL DEFAULT '{}'
	)`,

	`CREATE TABLE IF NOT EXISTS menu_items (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		image_link TEXT NOT NULL DEFAULT '',
		inventoryitem_ids INTEGER[] NOT NULL DEFAULT '{}',
		in_stock BOOLEAN NOT NULL DEFAULT true
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		customer_id INTEGER NOT NULL DEFAULT 0,
		employee_id INTEGER NOT NULL,
		menuitem_ids INTEGER[] NOT NULL,
		fooditem_ids JSONB NOT NULL,
		total NUMERIC(12,4) NOT NULL,
		tax NUMERIC(12,6) NOT NULL,
		ordered_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
		voided BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_ordered_time ON orders(ordered_time)`,
	// orders written before created_at existed keep their kiosk time
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS created_at TIMESTAMPTZ`,
	`UPDATE orders SET created_at = ordered_time WHERE created_at IS NULL`,
	`ALTER TABLE orders ALTER COLUMN created_at SET DEFAULT clock_timestamp()`,
	`ALTER TABLE orders ALTER COLUMN created_at SET NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,

	`CREATE TABLE IF NOT EXISTS z_reports (
		id SERIAL PRIMARY KEY,
		period_start TIMESTAMPTZ NOT NULL,
		closed_at TIMESTAMPTZ NOT NULL,
		order_count INTEGER NOT NULL,
		total NUMERIC(14,4) NOT NULL,
		tax NUMERIC(14,6) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_z_reports_closed_at ON z_reports(closed_at)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i, err)
		}
	}
	return nil
}
