package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type reportRepository struct {
	db DB
}

func NewReportRepository(db DB) interfaces.ReportRepository {
	return &reportRepository{db: db}
}

// querier is the read side shared by DB and Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Sales are bucketed by the server-side insert time, so a kiosk clock never moves an
// order into a period that is already closed.
const hourlySalesQuery = `
	SELECT date_trunc('hour', created_at AT TIME ZONE 'UTC') AS hour,
	       COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(tax), 0)
	FROM orders
	WHERE NOT voided AND created_at > $1 AND created_at <= $2
	GROUP BY hour
	ORDER BY hour
`

func (r *reportRepository) HourlySales(ctx context.Context, since, until time.Time) ([]domain.HourlySales, error) {
	return hourlySales(ctx, r.db, since, until)
}

func hourlySales(ctx context.Context, q querier, since, until time.Time) ([]domain.HourlySales, error) {
	rows, err := q.Query(ctx, hourlySalesQuery, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly sales: %w", err)
	}
	defer rows.Close()

	hours := []domain.HourlySales{}
	for rows.Next() {
		var h domain.HourlySales
		if err := rows.Scan(&h.Hour, &h.OrderCount, &h.Total, &h.Tax); err != nil {
			return nil, fmt.Errorf("failed to scan hourly sales: %w", err)
		}
		h.Hour = time.Date(h.Hour.Year(), h.Hour.Month(), h.Hour.Day(), h.Hour.Hour(), 0, 0, 0, time.UTC)
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

const zColumns = `id, period_start, closed_at, order_count, total, tax`

func scanZReport(row Row) (*domain.ZReport, error) {
	var z domain.ZReport
	if err := row.Scan(&z.ID, &z.PeriodStart, &z.ClosedAt, &z.OrderCount, &z.Total, &z.Tax); err != nil {
		return nil, err
	}
	z.PeriodStart = z.PeriodStart.UTC()
	z.ClosedAt = z.ClosedAt.UTC()
	return &z, nil
}

func (r *reportRepository) LastClose(ctx context.Context) (*domain.ZReport, error) {
	return lastClose(ctx, r.db)
}

func lastClose(ctx context.Context, q querier) (*domain.ZReport, error) {
	z, err := scanZReport(q.QueryRow(ctx, `SELECT `+zColumns+` FROM z_reports ORDER BY closed_at DESC LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load last z report: %w", err)
	}
	return z, nil
}

// ClosePeriod reads the last close, totals the sales after it and records the new close
// in one transaction. The table lock conflicts with itself, so a second close waits and
// then starts from the row this one wrote.
func (r *reportRepository) ClosePeriod(ctx context.Context, closedAt time.Time) (*domain.ZReport, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE z_reports IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return nil, fmt.Errorf("failed to lock z reports: %w", err)
	}

	last, err := lastClose(ctx, tx)
	if err != nil {
		return nil, err
	}
	start := domain.PeriodStart(last)

	hours, err := hourlySales(ctx, tx, start, closedAt)
	if err != nil {
		return nil, err
	}

	z := domain.NewXReport(start, closedAt, hours).Close()
	query := `
		INSERT INTO z_reports (period_start, closed_at, order_count, total, tax)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := tx.QueryRow(ctx, query, z.PeriodStart, z.ClosedAt, z.OrderCount, z.Total, z.Tax).Scan(&z.ID); err != nil {
		return nil, fmt.Errorf("failed to insert z report: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit z report: %w", err)
	}
	return z, nil
}

func (r *reportRepository) ListCloses(ctx context.Context, limit int) ([]*domain.ZReport, error) {
	rows, err := r.db.Query(ctx, `SELECT `+zColumns+` FROM z_reports ORDER BY closed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query z reports: %w", err)
	}
	defer rows.Close()

	reports := []*domain.ZReport{}
	for rows.Next() {
		z, err := scanZReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan z report: %w", err)
		}
		reports = append(reports, z)
	}
	return reports, rows.Err()
}
