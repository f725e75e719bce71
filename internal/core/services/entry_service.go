package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/giropositivo/giro_backend/internal/apperrors"
	"github.com/giropositivo/giro_backend/internal/core/domain"
	portsrepo "github.com/giropositivo/giro_backend/internal/core/ports/repositories"
	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/dto"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
	"github.com/giropositivo/giro_backend/internal/utils/pagination"
)

// RechargeCategory marks APP_TAX entries that are really wallet top-ups.
const RechargeCategory = "Taxa de Aplicativo"

var (
	ErrAutomaticEntry  = errors.New("automatic entries are managed by journey reconciliation")
	ErrJourneyMismatch = errors.New("journey belongs to another contract")
)

var hundred = decimal.NewFromInt(100)

// entryService records manual monetary events.
type entryService struct {
	BaseService
	entryRepo   portsrepo.EntryRepositoryFacade
	journeyRepo portsrepo.JourneyReader
	contractSvc portssvc.ContractReaderSvc
	reconciler  portssvc.JourneyReconcilerSvc
}

// EntryServiceOption is a functional option for configuring the entry service
type EntryServiceOption func(*entryService)

// WithEntryClock overrides the clock used for audit fields.
func WithEntryClock(clock func() time.Time) EntryServiceOption {
	return func(s *entryService) {
		s.Clock = clock
	}
}

// WithEntryReconciler re-runs reconciliation when a wallet credit of a closed
// journey changes.
func WithEntryReconciler(reconciler portssvc.JourneyReconcilerSvc) EntryServiceOption {
	return func(s *entryService) {
		s.reconciler = reconciler
	}
}

// NewEntryService creates a new entry service with the provided options
func NewEntryService(
	entryRepo portsrepo.EntryRepositoryFacade,
	journeyRepo portsrepo.JourneyReader,
	contractSvc portssvc.ContractReaderSvc,
	cal *calendar.Calendar,
	options ...EntryServiceOption,
) portssvc.EntrySvcFacade {
	svc := &entryService{
		BaseService: BaseService{Calendar: cal},
		entryRepo:   entryRepo,
		journeyRepo: journeyRepo,
		contractSvc: contractSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// CreateEntry records a manual entry on the given or active contract. Wallet
// credits made during an open journey are linked to it. Wallet credits and
// manual debits move the contract's app balance in the same write.
func (s *entryService) CreateEntry(ctx context.Context, ownerID string, req dto.CreateEntryRequest) (*domain.Entry, error) {
	if !req.Kind.IsValid() {
		return nil, apperrors.NewInvalidInputError("kind", "unknown entry kind")
	}
	if req.Amount.IsNegative() {
		return nil, apperrors.NewInvalidInputError("amount", "must not be negative")
	}
	if req.Date.IsZero() {
		return nil, apperrors.NewInvalidInputError("date", "missing instant")
	}

	contract, err := s.resolveContract(ctx, ownerID, req.ContractID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	if !contract.IsOpen(now) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrContractFinished)
	}

	entry := domain.Entry{
		EntryID:     uuid.NewString(),
		OwnerID:     ownerID,
		ContractID:  contract.ContractID,
		Kind:        req.Kind,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date.UTC(),
		Platform:    req.Platform,
		IsRecharge:  req.IsRecharge,
		KmRecorded:  req.KmRecorded,
		AuditFields: domain.NewAuditFields(ownerID, now),
	}
	if req.Kind == domain.Fuel {
		entry.PricePerLiter = req.PricePerLiter
	}
	entry.Discount = discountValue(entry.Amount, req.Discount, req.DiscountType)
	classifyOrigin(&entry)

	journey, err := s.resolveJourney(ctx, ownerID, contract.ContractID, req.JourneyID, entry)
	if err != nil {
		return nil, err
	}
	if journey != nil {
		id := journey.JourneyID
		entry.JourneyID = &id
	}

	delta := walletDelta(entry, journey)
	if err := s.entryRepo.SaveEntry(ctx, entry, delta); err != nil {
		s.LogError(ctx, err, "Failed to save entry", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	s.LogInfo(ctx, "Entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("kind", string(entry.Kind)),
		slog.String("origin", string(entry.Origin)),
		slog.String("wallet_delta", delta.String()))

	if journey != nil && journey.Closed && entry.IsWalletCredit() {
		s.reconcile(ctx, ownerID, journey.JourneyID)
	}
	return &entry, nil
}

// GetEntryByID retrieves an entry of the owner.
func (s *entryService) GetEntryByID(ctx context.Context, ownerID, entryID string) (*domain.Entry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, ownerID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries retrieves a page of entries, newest first.
func (s *entryService) ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	filter := portsrepo.EntryFilter{
		ContractID: params.ContractID,
		JourneyID:  params.JourneyID,
	}
	if params.From != "" {
		from, err := s.Calendar.ParseCivilDate(params.From)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("from", err.Error())
		}
		filter.From = from
	}
	if params.To != "" {
		to, err := s.Calendar.ParseCivilDate(params.To)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("to", err.Error())
		}
		filter.To = s.Calendar.NextDay(to)
	}

	var token *string
	if params.NextToken != "" {
		if _, err := pagination.DecodeToken(params.NextToken); err != nil {
			return nil, apperrors.NewInvalidInputError("nextToken", err.Error())
		}
		token = &params.NextToken
	}

	entries, next, err := s.entryRepo.ListEntries(ctx, ownerID, filter, pagination.NormalizeLimit(params.Limit), token)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: next,
	}, nil
}

// UpdateEntry edits a manual entry. Automatic entries are refused. The
// contract's app balance moves by the difference between the new and the old
// wallet effect of the entry.
func (s *entryService) UpdateEntry(ctx context.Context, ownerID, entryID string, req dto.UpdateEntryRequest) (*domain.Entry, error) {
	entry, err := s.GetEntryByID(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsAutomatic() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrForbidden, ErrAutomaticEntry)
	}
	before := *entry

	if req.Kind != nil {
		if !req.Kind.IsValid() {
			return nil, apperrors.NewInvalidInputError("kind", "unknown entry kind")
		}
		entry.Kind = *req.Kind
	}
	if req.Category != nil {
		entry.Category = *req.Category
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, apperrors.NewInvalidInputError("amount", "must not be negative")
		}
		entry.Amount = *req.Amount
	}
	if req.Date != nil {
		entry.Date = req.Date.UTC()
	}
	if req.Platform != nil {
		entry.Platform = *req.Platform
	}
	if req.IsRecharge != nil {
		entry.IsRecharge = *req.IsRecharge
	}
	if req.KmRecorded != nil {
		entry.KmRecorded = req.KmRecorded
	}
	if req.PricePerLiter != nil {
		entry.PricePerLiter = req.PricePerLiter
	}
	if entry.Kind != domain.Fuel {
		entry.PricePerLiter = nil
	}
	if req.Discount != nil {
		entry.Discount = discountValue(entry.Amount, req.Discount, req.DiscountType)
	}
	classifyOrigin(entry)
	entry.Touch(ownerID, s.Now())

	journey, err := s.linkedJourney(ctx, ownerID, before, *entry)
	if err != nil {
		return nil, err
	}
	delta := walletDelta(*entry, journey).Sub(walletDelta(before, journey))
	if err := s.entryRepo.UpdateEntry(ctx, *entry, delta); err != nil {
		s.LogError(ctx, err, "Failed to update entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	if journey != nil && journey.Closed && (before.IsWalletCredit() || entry.IsWalletCredit()) {
		s.reconcile(ctx, ownerID, journey.JourneyID)
	}
	return entry, nil
}

// DeleteEntry removes a manual entry and reverts its wallet effect. Automatic
// entries are refused.
func (s *entryService) DeleteEntry(ctx context.Context, ownerID, entryID string) error {
	entry, err := s.GetEntryByID(ctx, ownerID, entryID)
	if err != nil {
		return err
	}
	if entry.IsAutomatic() {
		return fmt.Errorf("%w: %w", apperrors.ErrForbidden, ErrAutomaticEntry)
	}

	journey, err := s.linkedJourney(ctx, ownerID, *entry)
	if err != nil {
		return err
	}
	if err := s.entryRepo.DeleteEntry(ctx, *entry, walletDelta(*entry, journey).Neg()); err != nil {
		s.LogError(ctx, err, "Failed to delete entry", slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if journey != nil && journey.Closed && entry.IsWalletCredit() {
		s.reconcile(ctx, ownerID, journey.JourneyID)
	}
	return nil
}

func (s *entryService) resolveContract(ctx context.Context, ownerID string, contractID *string) (*domain.Contract, error) {
	if contractID != nil && *contractID != "" {
		return s.contractSvc.GetContractByID(ctx, ownerID, *contractID)
	}
	contract, err := s.contractSvc.GetActiveContract(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewInvalidInputError("contractID", "no active contract to attach the entry to")
		}
		return nil, err
	}
	return contract, nil
}

// resolveJourney returns the explicit journey of the request, or the open
// journey of the contract for wallet credits.
func (s *entryService) resolveJourney(ctx context.Context, ownerID, contractID string, journeyID *string, entry domain.Entry) (*domain.Journey, error) {
	if s.journeyRepo == nil {
		return nil, nil
	}
	if journeyID != nil && *journeyID != "" {
		journey, err := s.journeyRepo.FindJourneyByID(ctx, ownerID, *journeyID)
		if err != nil {
			return nil, err
		}
		if journey.ContractID != contractID {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrJourneyMismatch)
		}
		return journey, nil
	}
	if !entry.IsWalletCredit() {
		return nil, nil
	}

	open, err := s.journeyRepo.FindOpenJourney(ctx, ownerID, contractID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to look up open journey", slog.String("contract_id", contractID))
		return nil, fmt.Errorf("failed to look up open journey: %w", err)
	}
	return open, nil
}

// linkedJourney loads the journey of an entry whose wallet effect matters.
// versions are the states of the same entry before and after an edit. A
// dangling journey link counts as no journey.
func (s *entryService) linkedJourney(ctx context.Context, ownerID string, versions ...domain.Entry) (*domain.Journey, error) {
	if s.journeyRepo == nil || versions[0].JourneyID == nil {
		return nil, nil
	}
	touchesWallet := false
	for _, e := range versions {
		if !e.WalletDelta().IsZero() || e.IsWalletCredit() {
			touchesWallet = true
		}
	}
	if !touchesWallet {
		return nil, nil
	}

	journeyID := *versions[0].JourneyID
	journey, err := s.journeyRepo.FindJourneyByID(ctx, ownerID, journeyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to load linked journey", slog.String("journey_id", journeyID))
		return nil, fmt.Errorf("failed to load linked journey: %w", err)
	}
	return journey, nil
}

// walletDelta is the app balance change e applies to its contract. Entries of
// a closed journey are already covered by that journey's balance snapshots,
// which its reconciliation writes back to the contract.
func walletDelta(e domain.Entry, journey *domain.Journey) decimal.Decimal {
	if e.ContractID == "" || (journey != nil && journey.Closed) {
		return decimal.Zero
	}
	return e.WalletDelta()
}

// reconcile re-runs the reconciliation of a closed journey after one of its
// wallet credits changed. The entry write has already committed, so a failure
// is logged and left for an explicit reconcile of the journey.
func (s *entryService) reconcile(ctx context.Context, ownerID, journeyID string) {
	if s.reconciler == nil {
		s.LogDebug(ctx, "No reconciler configured, skipping", slog.String("journey_id", journeyID))
		return
	}
	if _, err := s.reconciler.ReconcileJourney(ctx, ownerID, journeyID); err != nil {
		s.LogWarn(ctx, "Journey left stale after entry change",
			slog.String("journey_id", journeyID),
			slog.String("error", err.Error()))
	}
}

// classifyOrigin derives the recharge flag and origin tag of a manual entry.
func classifyOrigin(e *domain.Entry) {
	switch e.Kind {
	case domain.AppRecharge:
		e.IsRecharge = true
		e.Origin = domain.OriginManual
	case domain.AppTax:
		if e.Category == RechargeCategory {
			e.IsRecharge = true
		}
		e.Origin = domain.OriginManual
		if e.IsRecharge {
			e.Origin = domain.OriginManualRecharge
		}
	default:
		e.IsRecharge = false
		e.Origin = domain.OriginManual
	}
}

// discountValue converts a percent discount into money. Zero discounts are dropped.
func discountValue(amount decimal.Decimal, discount *decimal.Decimal, kind dto.DiscountType) *decimal.Decimal {
	if discount == nil || !discount.IsPositive() {
		return nil
	}
	value := *discount
	if kind == dto.DiscountPercent {
		value = amount.Mul(value).Div(hundred)
	}
	return &value
}
