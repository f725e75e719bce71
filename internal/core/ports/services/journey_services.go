package services

import (
	"context"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/dto"
)

// JourneyReaderSvc defines read operations for journey data
type JourneyReaderSvc interface {
	GetJourneyByID(ctx context.Context, ownerID, journeyID string) (*domain.Journey, error)
	ListJourneys(ctx context.Context, ownerID string, params dto.ListJourneysParams) (*dto.ListJourneysResponse, error)
}

// JourneyReconcilerSvc re-derives the automatic entry of a closed journey.
type JourneyReconcilerSvc interface {
	ReconcileJourney(ctx context.Context, ownerID, journeyID string) (*domain.JourneyReconciliation, error)
}

// JourneyWriterSvc defines the journey lifecycle
type JourneyWriterSvc interface {
	// StartJourney opens a shift on the contract. Only one may be open per contract.
	StartJourney(ctx context.Context, ownerID string, req dto.StartJourneyRequest) (*domain.Journey, error)

	// CloseJourney closes an open shift and reconciles it in the same transaction.
	CloseJourney(ctx context.Context, ownerID, journeyID string, req dto.CloseJourneyRequest) (*domain.JourneyReconciliation, error)

	// UpdateJourney edits a closed shift and reconciles it again.
	UpdateJourney(ctx context.Context, ownerID, journeyID string, req dto.UpdateJourneyRequest) (*domain.JourneyReconciliation, error)

	// DeleteJourney removes a closed shift together with every linked entry.
	DeleteJourney(ctx context.Context, ownerID, journeyID string) error
}

// JourneySvcFacade combines all journey-related service interfaces
type JourneySvcFacade interface {
	JourneyReaderSvc
	JourneyWriterSvc
	JourneyReconcilerSvc
}
