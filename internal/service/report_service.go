package service

import (
	"context"
	"fmt"
	"time"

	"tably/internal/model"
	"tably/internal/repository"

	"github.com/rs/zerolog"
)

// topItemCount caps the top-seller list on the dashboard.
const topItemCount = 5

// reportService implements ReportService.
type reportService struct {
	reportRepo repository.ReportRepository
	logger     zerolog.Logger
}

// NewReportService creates a new report service.
func NewReportService(reportRepo repository.ReportRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		logger:     logger.With().Str("service", "report").Logger(),
	}
}

// SalesSummary aggregates orders and expenses over a date range. The range
// is inclusive on both ends.
func (s *reportService) SalesSummary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("date range end precedes start")
	}

	summary, err := s.reportRepo.SalesSummary(ctx, from, to, topItemCount)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build sales summary")
		return nil, fmt.Errorf("failed to build sales summary: %w", err)
	}

	return summary, nil
}
