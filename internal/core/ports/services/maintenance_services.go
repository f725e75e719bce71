package services

import (
	"context"

	"github.com/giropositivo/giro_backend/internal/core/domain"
)

// MaintenanceService runs one-time data migrations for legacy records.
type MaintenanceService interface {
	// RelinkLegacyRecords backfills missing contract ids, links unlinked wallet
	// credits to the single closed journey containing them and reconciles the
	// affected journeys.
	RelinkLegacyRecords(ctx context.Context, ownerID string) (*domain.LegacyRelinkReport, error)
}
