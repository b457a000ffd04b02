package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HourlySales is one bucket of an X report.
type HourlySales struct {
	Hour       time.Time
	OrderCount int
	Total      decimal.Decimal
	Tax        decimal.Decimal
}

// XReport summarises sales since the last Z close without closing the period.
type XReport struct {
	PeriodStart time.Time
	GeneratedAt time.Time
	Hours       []HourlySales
	OrderCount  int
	Total       decimal.Decimal
	Tax         decimal.Decimal
}

// NewXReport folds hourly buckets into period totals
func NewXReport(periodStart, generatedAt time.Time, hours []HourlySales) *XReport {
	r := &XReport{
		PeriodStart: periodStart,
		GeneratedAt: generatedAt,
		Hours:       hours,
		Total:       decimal.Zero,
		Tax:         decimal.Zero,
	}
	for _, h := range hours {
		r.OrderCount += h.OrderCount
		r.Total = r.Total.Add(h.Total)
		r.Tax = r.Tax.Add(h.Tax)
	}
	return r
}

// ZReport is a closed sales period. Closing never rewrites order rows;
// the next period starts at ClosedAt.
type ZReport struct {
	ID          int
	PeriodStart time.Time
	ClosedAt    time.Time
	OrderCount  int
	Total       decimal.Decimal
	Tax         decimal.Decimal
}

// PeriodStart is where the open period begins: the last close, or the epoch when
// nothing was ever closed.
func PeriodStart(last *ZReport) time.Time {
	if last == nil {
		return time.Unix(0, 0).UTC()
	}
	return last.ClosedAt
}

// Close turns the running X report into a Z record
func (r *XReport) Close() *ZReport {
	return &ZReport{
		PeriodStart: r.PeriodStart,
		ClosedAt:    r.GeneratedAt,
		OrderCount:  r.OrderCount,
		Total:       r.Total,
		Tax:         r.Tax,
	}
}
