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
	"github.com/giropositivo/giro_backend/internal/utils/accounting"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
)

var (
	ErrOpenContractExists = errors.New("owner already has a contract that is not finished")
	ErrContractFinished   = errors.New("contract is finished")
	ErrContractReferenced = errors.New("contract is referenced by entries or journeys")
	ErrContractHasJourney = errors.New("contract has an open journey")
)

// contractService manages the vehicle contract lifecycle.
type contractService struct {
	BaseService
	contractRepo portsrepo.ContractRepositoryFacade
	journeyRepo  portsrepo.JourneyReader
}

// ContractServiceOption is a functional option for configuring the contract service
type ContractServiceOption func(*contractService)

// WithContractClock overrides the clock used for lifecycle decisions.
func WithContractClock(clock func() time.Time) ContractServiceOption {
	return func(s *contractService) {
		s.Clock = clock
	}
}

// WithContractJourneyReader lets CloseContract refuse contracts with an open journey.
func WithContractJourneyReader(reader portsrepo.JourneyReader) ContractServiceOption {
	return func(s *contractService) {
		s.journeyRepo = reader
	}
}

// NewContractService creates a new contract service with the provided options
func NewContractService(repo portsrepo.ContractRepositoryFacade, cal *calendar.Calendar, options ...ContractServiceOption) portssvc.ContractSvcFacade {
	svc := &contractService{
		BaseService:  BaseService{Calendar: cal},
		contractRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ContractSvcFacade = (*contractService)(nil)

// CreateContract registers a new contract. Only one contract per owner may be
// unfinished at a time.
func (s *contractService) CreateContract(ctx context.Context, ownerID string, req dto.CreateContractRequest) (*domain.Contract, error) {
	now := s.Now()

	existing, err := s.contractRepo.ListContractsByOwner(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contracts", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	for _, c := range existing {
		if c.IsOpen(now) {
			return nil, fmt.Errorf("%w: %w (contract %s)", apperrors.ErrConflict, ErrOpenContractExists, c.ContractID)
		}
	}

	contract := domain.Contract{
		ContractID:      uuid.NewString(),
		OwnerID:         ownerID,
		VehicleName:     req.VehicleName,
		VehiclePlate:    req.VehiclePlate,
		Type:            req.Type,
		Status:          domain.ContractActive,
		ContractValue:   req.ContractValue,
		CarInstallment:  req.CarInstallment,
		ProfitGoal:      req.ProfitGoal,
		CurrentOdometer: req.CurrentOdometer,
		AppBalance:      req.AppBalance,
		AuditFields:     domain.NewAuditFields(ownerID, now),
	}

	switch req.Type {
	case domain.Rented:
		if req.ContractStart == nil || req.ContractEnd == nil {
			return nil, apperrors.NewInvalidInputError("contractEnd", "rented contracts need a start and an end")
		}
		if !req.ContractEnd.After(*req.ContractStart) {
			return nil, apperrors.NewInvalidInputError("contractEnd", "must be after contract start")
		}
		contract.ContractStart = req.ContractStart.UTC()
		contract.ContractEnd = req.ContractEnd.UTC()
		contract.CarInstallment = decimal.Zero
	case domain.Owned:
		contract.ContractStart = now
		if req.ContractStart != nil {
			contract.ContractStart = req.ContractStart.UTC()
		}
		contract.ContractEnd = accounting.OpenEndedContractEnd(s.Calendar).UTC()
	default:
		return nil, apperrors.NewInvalidInputError("type", "must be RENTED or OWNED")
	}

	if err := s.contractRepo.SaveContract(ctx, contract); err != nil {
		s.LogError(ctx, err, "Failed to save contract", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to save contract: %w", err)
	}

	s.LogInfo(ctx, "Contract created",
		slog.String("contract_id", contract.ContractID),
		slog.String("type", string(contract.Type)))
	return &contract, nil
}

// GetContractByID retrieves a contract of the owner.
func (s *contractService) GetContractByID(ctx context.Context, ownerID, contractID string) (*domain.Contract, error) {
	contract, err := s.contractRepo.FindContractByID(ctx, ownerID, contractID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find contract", slog.String("contract_id", contractID))
		}
		return nil, err
	}
	return contract, nil
}

// GetActiveContract returns the running contract, or the upcoming one when
// nothing is running yet.
func (s *contractService) GetActiveContract(ctx context.Context, ownerID string) (*domain.Contract, error) {
	contracts, err := s.contractRepo.ListContractsByOwner(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contracts", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	now := s.Now()
	var future *domain.Contract
	for i := range contracts {
		switch contracts[i].EffectiveStatus(now) {
		case domain.ContractActive:
			return &contracts[i], nil
		case domain.ContractFuture:
			if future == nil {
				future = &contracts[i]
			}
		}
	}
	if future != nil {
		return future, nil
	}
	return nil, fmt.Errorf("%w: no active contract", apperrors.ErrNotFound)
}

// ListContracts retrieves every contract of the owner.
func (s *contractService) ListContracts(ctx context.Context, ownerID string) ([]domain.Contract, error) {
	contracts, err := s.contractRepo.ListContractsByOwner(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contracts", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// UpdateContract edits the vehicle data, cost terms and snapshots of a contract.
func (s *contractService) UpdateContract(ctx context.Context, ownerID, contractID string, req dto.UpdateContractRequest) (*domain.Contract, error) {
	contract, err := s.GetContractByID(ctx, ownerID, contractID)
	if err != nil {
		return nil, err
	}

	if req.VehicleName != nil {
		contract.VehicleName = *req.VehicleName
	}
	if req.VehiclePlate != nil {
		contract.VehiclePlate = *req.VehiclePlate
	}
	if req.ContractValue != nil {
		contract.ContractValue = *req.ContractValue
	}
	if req.CarInstallment != nil {
		if contract.Type != domain.Owned {
			return nil, apperrors.NewInvalidInputError("carInstallment", "only owned vehicles have installments")
		}
		contract.CarInstallment = *req.CarInstallment
	}
	if req.ProfitGoal != nil {
		contract.ProfitGoal = *req.ProfitGoal
	}
	if req.CurrentOdometer != nil {
		contract.CurrentOdometer = *req.CurrentOdometer
	}
	if req.AppBalance != nil {
		contract.AppBalance = *req.AppBalance
	}
	contract.Touch(ownerID, s.Now())

	if err := s.contractRepo.UpdateContract(ctx, *contract); err != nil {
		s.LogError(ctx, err, "Failed to update contract", slog.String("contract_id", contractID))
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}
	return contract, nil
}

// CloseContract finishes a contract. The end instant becomes the closure instant.
func (s *contractService) CloseContract(ctx context.Context, ownerID, contractID string, req dto.CloseContractRequest) (*domain.Contract, error) {
	contract, err := s.GetContractByID(ctx, ownerID, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status == domain.ContractFinished {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrContractFinished)
	}

	if s.journeyRepo != nil {
		open, err := s.journeyRepo.FindOpenJourney(ctx, ownerID, contractID)
		switch {
		case err == nil && open != nil:
			return nil, fmt.Errorf("%w: %w (journey %s)", apperrors.ErrConflict, ErrContractHasJourney, open.JourneyID)
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to look up open journey", slog.String("contract_id", contractID))
			return nil, fmt.Errorf("failed to look up open journey: %w", err)
		}
	}

	now := s.Now()
	closedAt := now
	if req.ClosedAt != nil {
		closedAt = req.ClosedAt.UTC()
	}
	if closedAt.Before(contract.ContractStart) {
		return nil, apperrors.NewInvalidInputError("closedAt", "before contract start")
	}

	contract.Status = domain.ContractFinished
	contract.ContractEnd = closedAt
	contract.Touch(ownerID, now)

	if err := s.contractRepo.UpdateContract(ctx, *contract); err != nil {
		s.LogError(ctx, err, "Failed to close contract", slog.String("contract_id", contractID))
		return nil, fmt.Errorf("failed to close contract: %w", err)
	}

	s.LogInfo(ctx, "Contract closed", slog.String("contract_id", contractID), slog.Time("closed_at", closedAt))
	return contract, nil
}

// DeleteContract removes a contract that no entry or journey references.
func (s *contractService) DeleteContract(ctx context.Context, ownerID, contractID string) error {
	if _, err := s.GetContractByID(ctx, ownerID, contractID); err != nil {
		return err
	}

	refs, err := s.contractRepo.CountContractReferences(ctx, ownerID, contractID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count contract references", slog.String("contract_id", contractID))
		return fmt.Errorf("failed to count contract references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %w (%d records)", apperrors.ErrConflict, ErrContractReferenced, refs)
	}

	if err := s.contractRepo.DeleteContract(ctx, ownerID, contractID); err != nil {
		s.LogError(ctx, err, "Failed to delete contract", slog.String("contract_id", contractID))
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	return nil
}
