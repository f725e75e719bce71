package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/giropositivo/giro_backend/internal/apperrors"
	"github.com/giropositivo/giro_backend/internal/core/domain"
	portsrepo "github.com/giropositivo/giro_backend/internal/core/ports/repositories"
	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/dto"
	"github.com/giropositivo/giro_backend/internal/utils/accounting"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
	"github.com/giropositivo/giro_backend/internal/utils/pagination"
)

var (
	ErrJourneyAlreadyOpen = errors.New("contract already has an open journey")
	ErrJourneyClosed      = errors.New("journey is already closed")
	ErrJourneyOpen        = errors.New("journey is still open")
)

// journeyService runs the shift lifecycle and its wallet reconciliation.
type journeyService struct {
	BaseService
	journeyRepo portsrepo.JourneyRepositoryWithTx
	contractSvc portssvc.ContractReaderSvc
	observer    portssvc.ReconciliationObserver
}

// JourneyServiceOption is a functional option for configuring the journey service
type JourneyServiceOption func(*journeyService)

// WithJourneyClock overrides the clock used for start, close and audit instants.
func WithJourneyClock(clock func() time.Time) JourneyServiceOption {
	return func(s *journeyService) {
		s.Clock = clock
	}
}

// WithReconciliationObserver reports every persisted reconciliation outcome.
func WithReconciliationObserver(observer portssvc.ReconciliationObserver) JourneyServiceOption {
	return func(s *journeyService) {
		s.observer = observer
	}
}

// NewJourneyService creates a new journey service with the provided options
func NewJourneyService(
	journeyRepo portsrepo.JourneyRepositoryWithTx,
	contractSvc portssvc.ContractReaderSvc,
	cal *calendar.Calendar,
	options ...JourneyServiceOption,
) portssvc.JourneySvcFacade {
	svc := &journeyService{
		BaseService: BaseService{Calendar: cal},
		journeyRepo: journeyRepo,
		contractSvc: contractSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JourneySvcFacade = (*journeyService)(nil)

// StartJourney opens a shift with the contract's odometer and wallet balance.
func (s *journeyService) StartJourney(ctx context.Context, ownerID string, req dto.StartJourneyRequest) (*domain.Journey, error) {
	var (
		contract *domain.Contract
		err      error
	)
	if req.ContractID != nil && *req.ContractID != "" {
		contract, err = s.contractSvc.GetContractByID(ctx, ownerID, *req.ContractID)
	} else {
		contract, err = s.contractSvc.GetActiveContract(ctx, ownerID)
	}
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if !contract.IsOpen(now) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrContractFinished)
	}

	open, err := s.journeyRepo.FindOpenJourney(ctx, ownerID, contract.ContractID)
	switch {
	case err == nil && open != nil:
		return nil, fmt.Errorf("%w: %w (journey %s)", apperrors.ErrConflict, ErrJourneyAlreadyOpen, open.JourneyID)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up open journey", slog.String("contract_id", contract.ContractID))
		return nil, fmt.Errorf("failed to look up open journey: %w", err)
	}

	startedAt := now
	if req.StartedAt != nil {
		startedAt = req.StartedAt.UTC()
	}
	referenceDay := s.Calendar.CivilDate(startedAt)
	if req.ReferenceDay != nil && *req.ReferenceDay != "" {
		if _, err := s.Calendar.ParseCivilDate(*req.ReferenceDay); err != nil {
			return nil, apperrors.NewInvalidInputError("referenceDay", err.Error())
		}
		referenceDay = *req.ReferenceDay
	}
	kmStart := contract.CurrentOdometer
	if req.KmStart != nil {
		kmStart = *req.KmStart
	}

	journey := domain.Journey{
		JourneyID:    uuid.NewString(),
		OwnerID:      ownerID,
		ContractID:   contract.ContractID,
		ReferenceDay: referenceDay,
		StartedAt:    startedAt,
		KmStart:      kmStart,
		BalanceStart: contract.AppBalance,
		AuditFields:  domain.NewAuditFields(ownerID, now),
	}
	if err := s.journeyRepo.SaveJourney(ctx, journey); err != nil {
		s.LogError(ctx, err, "Failed to save journey", slog.String("contract_id", contract.ContractID))
		return nil, fmt.Errorf("failed to save journey: %w", err)
	}

	s.LogInfo(ctx, "Journey started",
		slog.String("journey_id", journey.JourneyID),
		slog.String("contract_id", contract.ContractID),
		slog.Int64("km_start", kmStart))
	return &journey, nil
}

// CloseJourney closes an open shift. The closing edit and its reconciliation
// are persisted in one transaction.
func (s *journeyService) CloseJourney(ctx context.Context, ownerID, journeyID string, req dto.CloseJourneyRequest) (*domain.JourneyReconciliation, error) {
	journey, err := s.GetJourneyByID(ctx, ownerID, journeyID)
	if err != nil {
		return nil, err
	}
	if journey.Closed {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrJourneyClosed)
	}
	if req.KmEnd == nil {
		return nil, apperrors.NewInvalidInputError("kmEnd", "required to close a journey")
	}
	if req.BalanceEnd == nil {
		return nil, apperrors.NewInvalidInputError("balanceEnd", "required to close a journey")
	}

	now := s.Now()
	endedAt := now
	if req.EndedAt != nil {
		endedAt = req.EndedAt.UTC()
	}
	kmEnd := *req.KmEnd
	balanceEnd := *req.BalanceEnd

	journey.EndedAt = &endedAt
	journey.KmEnd = &kmEnd
	journey.BalanceEnd = &balanceEnd
	journey.Closed = true
	journey.Touch(ownerID, now)

	return s.reconcile(ctx, *journey)
}

// UpdateJourney edits a closed journey and reconciles it again. Open journeys
// only change through CloseJourney.
func (s *journeyService) UpdateJourney(ctx context.Context, ownerID, journeyID string, req dto.UpdateJourneyRequest) (*domain.JourneyReconciliation, error) {
	journey, err := s.GetJourneyByID(ctx, ownerID, journeyID)
	if err != nil {
		return nil, err
	}
	if !journey.Closed {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrJourneyOpen)
	}

	if req.ReferenceDay != nil {
		if _, err := s.Calendar.ParseCivilDate(*req.ReferenceDay); err != nil {
			return nil, apperrors.NewInvalidInputError("referenceDay", err.Error())
		}
		journey.ReferenceDay = *req.ReferenceDay
	}
	if req.StartedAt != nil {
		journey.StartedAt = req.StartedAt.UTC()
	}
	if req.EndedAt != nil {
		endedAt := req.EndedAt.UTC()
		journey.EndedAt = &endedAt
	}
	if req.KmStart != nil {
		journey.KmStart = *req.KmStart
	}
	if req.KmEnd != nil {
		kmEnd := *req.KmEnd
		journey.KmEnd = &kmEnd
	}
	if req.BalanceStart != nil {
		journey.BalanceStart = *req.BalanceStart
	}
	if req.BalanceEnd != nil {
		balanceEnd := *req.BalanceEnd
		journey.BalanceEnd = &balanceEnd
	}
	journey.Touch(ownerID, s.Now())

	return s.reconcile(ctx, *journey)
}

// ReconcileJourney re-derives the automatic entry of an unchanged closed journey.
func (s *journeyService) ReconcileJourney(ctx context.Context, ownerID, journeyID string) (*domain.JourneyReconciliation, error) {
	journey, err := s.GetJourneyByID(ctx, ownerID, journeyID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, *journey)
}

// DeleteJourney removes a closed journey and every entry linked to it atomically.
func (s *journeyService) DeleteJourney(ctx context.Context, ownerID, journeyID string) error {
	journey, err := s.GetJourneyByID(ctx, ownerID, journeyID)
	if err != nil {
		return err
	}
	if !journey.Closed {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrJourneyOpen)
	}

	removed, err := s.journeyRepo.DeleteJourneyCascade(ctx, ownerID, journeyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete journey", slog.String("journey_id", journeyID))
		return fmt.Errorf("failed to delete journey: %w", err)
	}

	s.LogInfo(ctx, "Journey deleted",
		slog.String("journey_id", journeyID),
		slog.Int64("linked_entries_removed", removed))
	return nil
}

// GetJourneyByID retrieves a journey of the owner.
func (s *journeyService) GetJourneyByID(ctx context.Context, ownerID, journeyID string) (*domain.Journey, error) {
	journey, err := s.journeyRepo.FindJourneyByID(ctx, ownerID, journeyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journey", slog.String("journey_id", journeyID))
		}
		return nil, err
	}
	return journey, nil
}

// ListJourneys retrieves a page of journeys, newest first.
func (s *journeyService) ListJourneys(ctx context.Context, ownerID string, params dto.ListJourneysParams) (*dto.ListJourneysResponse, error) {
	var token *string
	if params.NextToken != "" {
		if _, err := pagination.DecodeToken(params.NextToken); err != nil {
			return nil, apperrors.NewInvalidInputError("nextToken", err.Error())
		}
		token = &params.NextToken
	}

	journeys, next, err := s.journeyRepo.ListJourneys(ctx, ownerID, params.ContractID, pagination.NormalizeLimit(params.Limit), token)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journeys", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to list journeys: %w", err)
	}
	return &dto.ListJourneysResponse{
		Journeys:  dto.ToJourneyResponses(journeys),
		NextToken: next,
	}, nil
}

// reconcile plans the automatic entry of a closed journey from the entries
// linked to it and persists the journey, the entry replacement and the
// contract snapshot together. The linked entries are read inside the same
// transaction. Invalid journeys are rejected before anything is written.
func (s *journeyService) reconcile(ctx context.Context, journey domain.Journey) (*domain.JourneyReconciliation, error) {
	contract, err := s.contractSvc.GetContractByID(ctx, journey.OwnerID, journey.ContractID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := s.Now()
	var rejected error
	plan, err := s.journeyRepo.SaveJourneyReconciliation(ctx, journey, func(linked []domain.Entry) (domain.JourneyReconciliation, error) {
		p, err := accounting.PlanReconciliation(journey, contract, linked, now)
		rejected = err
		return p, err
	})
	if rejected != nil {
		s.LogWarn(ctx, "Journey reconciliation rejected",
			slog.String("journey_id", journey.JourneyID),
			slog.String("reason", rejected.Error()))
		return nil, rejected
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to persist journey reconciliation", slog.String("journey_id", journey.JourneyID))
		}
		return nil, fmt.Errorf("failed to persist journey reconciliation: %w", err)
	}
	if s.observer != nil {
		s.observer.ObserveReconciliation(plan.Outcome)
	}

	s.LogInfo(ctx, "Journey reconciled",
		slog.String("journey_id", journey.JourneyID),
		slog.String("outcome", string(plan.Outcome)),
		slog.String("tax", plan.Tax.String()))
	return plan, nil
}
