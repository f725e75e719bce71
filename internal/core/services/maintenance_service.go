package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	portsrepo "github.com/giropositivo/giro_backend/internal/core/ports/repositories"
	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/utils/accounting"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
)

// maintenanceService migrates legacy records to explicit links.
type maintenanceService struct {
	BaseService
	contractSvc portssvc.ContractReaderSvc
	entryRepo   portsrepo.EntryRepositoryFacade
	journeyRepo portsrepo.JourneyRepositoryFacade
	reconciler  portssvc.JourneyReconcilerSvc
}

// NewMaintenanceService creates a new maintenance service.
func NewMaintenanceService(
	contractSvc portssvc.ContractReaderSvc,
	entryRepo portsrepo.EntryRepositoryFacade,
	journeyRepo portsrepo.JourneyRepositoryFacade,
	reconciler portssvc.JourneyReconcilerSvc,
	cal *calendar.Calendar,
) portssvc.MaintenanceService {
	return &maintenanceService{
		BaseService: BaseService{Calendar: cal},
		contractSvc: contractSvc,
		entryRepo:   entryRepo,
		journeyRepo: journeyRepo,
		reconciler:  reconciler,
	}
}

var _ portssvc.MaintenanceService = (*maintenanceService)(nil)

// RelinkLegacyRecords backfills contract ids, links legacy wallet credits and
// reconciles every journey that gained a credit. Running it again is a no-op.
func (s *maintenanceService) RelinkLegacyRecords(ctx context.Context, ownerID string) (*domain.LegacyRelinkReport, error) {
	report := &domain.LegacyRelinkReport{}

	if err := s.backfillContracts(ctx, ownerID, report); err != nil {
		return nil, err
	}

	var (
		credits  []domain.Entry
		journeys []domain.Journey
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		credits, err = s.entryRepo.FindUnlinkedWalletCredits(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		journeys, err = s.journeyRepo.FindClosedJourneys(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load legacy link candidates", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to load legacy link candidates: %w", err)
	}

	plan := accounting.PlanLegacyRelink(credits, journeys)
	report.Linked = plan.Linked
	report.AmbiguousEntryIDs = plan.AmbiguousEntryIDs
	for _, id := range plan.AmbiguousEntryIDs {
		s.LogWarn(ctx, "Legacy recharge matches several journeys, left unlinked", slog.String("entry_id", id))
	}

	if len(plan.Linked) > 0 {
		if err := s.entryRepo.UpdateEntryLinks(ctx, plan.Linked); err != nil {
			s.LogError(ctx, err, "Failed to link legacy recharges", slog.Int("count", len(plan.Linked)))
			return nil, fmt.Errorf("failed to link legacy recharges: %w", err)
		}
	}

	var errs []error
	for _, journeyID := range plan.Journeys {
		if _, err := s.reconciler.ReconcileJourney(ctx, ownerID, journeyID); err != nil {
			errs = append(errs, fmt.Errorf("journey %s: %w", journeyID, err))
			continue
		}
		report.ReconciledJourneys = append(report.ReconciledJourneys, journeyID)
	}

	s.LogInfo(ctx, "Legacy records relinked",
		slog.Int("linked", len(report.Linked)),
		slog.Int("ambiguous", len(report.AmbiguousEntryIDs)),
		slog.Int("reconciled", len(report.ReconciledJourneys)),
		slog.Int("backfilled_entries", report.BackfilledEntries),
		slog.Int("backfilled_journeys", report.BackfilledJourneys))

	if len(errs) > 0 {
		return report, fmt.Errorf("failed to reconcile relinked journeys: %w", errors.Join(errs...))
	}
	return report, nil
}

func (s *maintenanceService) backfillContracts(ctx context.Context, ownerID string, report *domain.LegacyRelinkReport) error {
	var (
		contracts []domain.Contract
		entries   []domain.Entry
		journeys  []domain.Journey
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contracts, err = s.contractSvc.ListContracts(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.FindEntriesWithoutContract(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		journeys, err = s.journeyRepo.FindJourneysWithoutContract(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load backfill candidates", slog.String("owner_id", ownerID))
		return fmt.Errorf("failed to load backfill candidates: %w", err)
	}

	plan := accounting.PlanContractBackfill(s.Calendar, contracts, entries, journeys)
	if len(plan.Entries) > 0 {
		if err := s.entryRepo.UpdateEntryLinks(ctx, plan.Entries); err != nil {
			return fmt.Errorf("failed to backfill entry contracts: %w", err)
		}
	}
	if len(plan.Journeys) > 0 {
		if err := s.journeyRepo.UpdateJourneyContracts(ctx, plan.Journeys); err != nil {
			return fmt.Errorf("failed to backfill journey contracts: %w", err)
		}
	}
	report.BackfilledEntries = len(plan.Entries)
	report.BackfilledJourneys = len(plan.Journeys)
	return nil
}
