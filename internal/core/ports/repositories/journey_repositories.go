package repositories

import (
	"context"

	"github.com/giropositivo/giro_backend/internal/core/domain"
)

// ReconciliationPlanner derives the reconciliation of a journey from the
// entries currently linked to it.
type ReconciliationPlanner func(linked []domain.Entry) (domain.JourneyReconciliation, error)

// JourneyReader defines read operations for journey data
type JourneyReader interface {
	// FindJourneyByID retrieves a journey of ownerID. Returns apperrors.ErrNotFound when missing.
	FindJourneyByID(ctx context.Context, ownerID, journeyID string) (*domain.Journey, error)

	// FindOpenJourney retrieves the open journey of the contract. Returns apperrors.ErrNotFound when none.
	FindOpenJourney(ctx context.Context, ownerID, contractID string) (*domain.Journey, error)

	// ListJourneys retrieves a page of journeys ordered by start, newest first.
	ListJourneys(ctx context.Context, ownerID, contractID string, limit int, nextToken *string) ([]domain.Journey, *string, error)

	// FindJourneysByReferenceDays retrieves journeys of the contract whose reference day is in [fromDay, toDay].
	FindJourneysByReferenceDays(ctx context.Context, ownerID, contractID, fromDay, toDay string) ([]domain.Journey, error)

	// FindClosedJourneys retrieves every closed journey of ownerID.
	FindClosedJourneys(ctx context.Context, ownerID string) ([]domain.Journey, error)

	// FindJourneysWithoutContract retrieves legacy journeys that never got a contract.
	FindJourneysWithoutContract(ctx context.Context, ownerID string) ([]domain.Journey, error)
}

// JourneyWriter defines write operations for journey data
type JourneyWriter interface {
	// SaveJourney persists a newly opened journey.
	SaveJourney(ctx context.Context, journey domain.Journey) error

	// SaveJourneyReconciliation locks the journey row, loads its linked entries and
	// hands them to planner inside one transaction. The journey, the replacement of
	// its automatic entry and the contract odometer and balance snapshot are then
	// persisted in that transaction. A planner error rolls everything back and is
	// returned unchanged.
	SaveJourneyReconciliation(ctx context.Context, journey domain.Journey, planner ReconciliationPlanner) (*domain.JourneyReconciliation, error)

	// DeleteJourneyCascade atomically removes the journey and every entry linked to it.
	// It returns the number of entries removed.
	DeleteJourneyCascade(ctx context.Context, ownerID, journeyID string) (int64, error)

	// UpdateJourneyContracts rewrites the contract link of legacy journeys in one transaction.
	UpdateJourneyContracts(ctx context.Context, journeys []domain.Journey) error
}

// JourneyRepositoryFacade combines all journey-related repository interfaces
type JourneyRepositoryFacade interface {
	JourneyReader
	JourneyWriter
}

// JourneyRepositoryWithTx extends JourneyRepositoryFacade with transaction capabilities
type JourneyRepositoryWithTx interface {
	JourneyRepositoryFacade
	TransactionManager
}
