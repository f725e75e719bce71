package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	portsrepo "github.com/giropositivo/giro_backend/internal/core/ports/repositories"
)

// MockContractRepository is a mock type for the ContractRepositoryFacade interface
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindContractByID(ctx context.Context, ownerID, contractID string) (*domain.Contract, error) {
	args := m.Called(ctx, ownerID, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) ListContractsByOwner(ctx context.Context, ownerID string) ([]domain.Contract, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockContractRepository) CountContractReferences(ctx context.Context, ownerID, contractID string) (int64, error) {
	args := m.Called(ctx, ownerID, contractID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) SaveContract(ctx context.Context, contract domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) UpdateContract(ctx context.Context, contract domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) DeleteContract(ctx context.Context, ownerID, contractID string) error {
	args := m.Called(ctx, ownerID, contractID)
	return args.Error(0)
}

// MockEntryRepository is a mock type for the EntryRepositoryFacade interface
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, ownerID, entryID string) (*domain.Entry, error) {
	args := m.Called(ctx, ownerID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, ownerID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	args := m.Called(ctx, ownerID, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Entry), next, args.Error(2)
}

func (m *MockEntryRepository) FindEntriesInRange(ctx context.Context, ownerID, contractID string, from, to time.Time) ([]domain.Entry, error) {
	args := m.Called(ctx, ownerID, contractID, from, to)
	return entriesResult(args)
}

func (m *MockEntryRepository) FindUnlinkedWalletCredits(ctx context.Context, ownerID string) ([]domain.Entry, error) {
	args := m.Called(ctx, ownerID)
	return entriesResult(args)
}

func (m *MockEntryRepository) FindEntriesWithoutContract(ctx context.Context, ownerID string) ([]domain.Entry, error) {
	args := m.Called(ctx, ownerID)
	return entriesResult(args)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.Entry, walletDelta decimal.Decimal) error {
	args := m.Called(ctx, entry, walletDelta)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateEntry(ctx context.Context, entry domain.Entry, walletDelta decimal.Decimal) error {
	args := m.Called(ctx, entry, walletDelta)
	return args.Error(0)
}

func (m *MockEntryRepository) DeleteEntry(ctx context.Context, entry domain.Entry, walletDelta decimal.Decimal) error {
	args := m.Called(ctx, entry, walletDelta)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateEntryLinks(ctx context.Context, entries []domain.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func entriesResult(args mock.Arguments) ([]domain.Entry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

// MockJourneyRepository is a mock type for the JourneyRepositoryWithTx interface
type MockJourneyRepository struct {
	mock.Mock
	saved []domain.JourneyReconciliation
}

func (m *MockJourneyRepository) FindJourneyByID(ctx context.Context, ownerID, journeyID string) (*domain.Journey, error) {
	args := m.Called(ctx, ownerID, journeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Copy so services may mutate the result without touching the fixture
	j := *args.Get(0).(*domain.Journey)
	return &j, args.Error(1)
}

func (m *MockJourneyRepository) FindOpenJourney(ctx context.Context, ownerID, contractID string) (*domain.Journey, error) {
	args := m.Called(ctx, ownerID, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journey), args.Error(1)
}

func (m *MockJourneyRepository) ListJourneys(ctx context.Context, ownerID, contractID string, limit int, nextToken *string) ([]domain.Journey, *string, error) {
	args := m.Called(ctx, ownerID, contractID, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Journey), next, args.Error(2)
}

func (m *MockJourneyRepository) FindJourneysByReferenceDays(ctx context.Context, ownerID, contractID, fromDay, toDay string) ([]domain.Journey, error) {
	args := m.Called(ctx, ownerID, contractID, fromDay, toDay)
	return journeysResult(args)
}

func (m *MockJourneyRepository) FindClosedJourneys(ctx context.Context, ownerID string) ([]domain.Journey, error) {
	args := m.Called(ctx, ownerID)
	return journeysResult(args)
}

func (m *MockJourneyRepository) FindJourneysWithoutContract(ctx context.Context, ownerID string) ([]domain.Journey, error) {
	args := m.Called(ctx, ownerID)
	return journeysResult(args)
}

func (m *MockJourneyRepository) SaveJourney(ctx context.Context, journey domain.Journey) error {
	args := m.Called(ctx, journey)
	return args.Error(0)
}

// SaveJourneyReconciliation hands the entries given as the first return value
// to the planner, the way the real repository does after locking the journey.
// Persisted plans are recorded in saved.
func (m *MockJourneyRepository) SaveJourneyReconciliation(ctx context.Context, journey domain.Journey, planner portsrepo.ReconciliationPlanner) (*domain.JourneyReconciliation, error) {
	args := m.Called(ctx, journey)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	linked, _ := args.Get(0).([]domain.Entry)
	plan, err := planner(linked)
	if err != nil {
		return nil, err
	}
	m.saved = append(m.saved, plan)
	return &plan, nil
}

func (m *MockJourneyRepository) DeleteJourneyCascade(ctx context.Context, ownerID, journeyID string) (int64, error) {
	args := m.Called(ctx, ownerID, journeyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJourneyRepository) UpdateJourneyContracts(ctx context.Context, journeys []domain.Journey) error {
	args := m.Called(ctx, journeys)
	return args.Error(0)
}

func (m *MockJourneyRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJourneyRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJourneyRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func journeysResult(args mock.Arguments) ([]domain.Journey, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Journey), args.Error(1)
}

// MockReconciler is a mock type for the JourneyReconcilerSvc interface
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) ReconcileJourney(ctx context.Context, ownerID, journeyID string) (*domain.JourneyReconciliation, error) {
	args := m.Called(ctx, ownerID, journeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JourneyReconciliation), args.Error(1)
}

// decimalEq matches a decimal argument by value.
func decimalEq(v float64) any {
	want := decimal.NewFromFloat(v)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

// recordingObserver collects reconciliation outcomes.
type recordingObserver struct {
	outcomes []domain.ReconciliationOutcome
}

func (o *recordingObserver) ObserveReconciliation(outcome domain.ReconciliationOutcome) {
	o.outcomes = append(o.outcomes, outcome)
}

var (
	_ portsrepo.ContractRepositoryFacade = (*MockContractRepository)(nil)
	_ portsrepo.EntryRepositoryFacade    = (*MockEntryRepository)(nil)
	_ portsrepo.JourneyRepositoryWithTx  = (*MockJourneyRepository)(nil)
)
