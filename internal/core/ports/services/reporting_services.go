package services

import (
	"context"

	"github.com/giropositivo/giro_backend/internal/core/domain"
)

// ReportingService defines operations for generating profitability reports
type ReportingService interface {
	// DailyStats summarizes a civil day (YYYY-MM-DD, empty for today) of a contract
	// (empty for the active one).
	DailyStats(ctx context.Context, ownerID, day, contractID string) (*domain.DailyStats, error)

	// PeriodReport aggregates KPIs over the range selected by the query preset.
	PeriodReport(ctx context.Context, ownerID string, query domain.PeriodReportQuery) (*domain.PeriodReport, error)
}
