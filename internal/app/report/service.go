package report

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

// Service builds X reports over the open period and closes periods into Z reports.
// A period starts at the previous Z close, or at the epoch when nothing was ever closed.
type Service struct {
	repo   interfaces.ReportRepository
	logger logger.Logger
	now    func() time.Time
}

func NewService(repo interfaces.ReportRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) XReport(ctx context.Context) (*domain.XReport, error) {
	start, err := s.periodStart(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	hours, err := s.repo.HourlySales(ctx, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build x report: %w", err)
	}
	return domain.NewXReport(start, now, hours), nil
}

// ZReport records the running totals as a closed period. Order rows are left untouched.
func (s *Service) ZReport(ctx context.Context) (*domain.ZReport, error) {
	z, err := s.repo.ClosePeriod(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error("db_insert_failed", "Failed to close sales period", logger.RequestID(ctx), nil, err)
		return nil, fmt.Errorf("failed to build z report: %w", err)
	}

	s.logger.Info("period_closed", "Z report recorded", logger.RequestID(ctx), map[string]interface{}{
		"z_report_id":  z.ID,
		"period_start": z.PeriodStart,
		"orders":       z.OrderCount,
		"total":        z.Total.StringFixed(2),
	})
	return z, nil
}

func (s *Service) ListZReports(ctx context.Context, limit int) ([]*domain.ZReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.repo.ListCloses(ctx, limit)
}

func (s *Service) periodStart(ctx context.Context) (time.Time, error) {
	last, err := s.repo.LastClose(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to find last z report: %w", err)
	}
	return domain.PeriodStart(last), nil
}
