package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/giropositivo/giro_backend/internal/apperrors"
	"github.com/giropositivo/giro_backend/internal/core/domain"
	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/core/services"
	"github.com/giropositivo/giro_backend/internal/dto"
	"github.com/giropositivo/giro_backend/internal/utils/accounting"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
)

type JourneyServiceTestSuite struct {
	suite.Suite
	cal          *calendar.Calendar
	now          time.Time
	contractRepo *MockContractRepository
	journeyRepo  *MockJourneyRepository
	observer     *recordingObserver
	service      portssvc.JourneySvcFacade
}

func (suite *JourneyServiceTestSuite) SetupTest() {
	suite.cal = mustCalendar()
	suite.now = fixedNow(suite.cal)
	suite.contractRepo = new(MockContractRepository)
	suite.journeyRepo = new(MockJourneyRepository)
	suite.observer = &recordingObserver{}

	clock := func() time.Time { return suite.now }
	contracts := services.NewContractService(suite.contractRepo, suite.cal, services.WithContractClock(clock))
	suite.service = services.NewJourneyService(
		suite.journeyRepo,
		contracts,
		suite.cal,
		services.WithJourneyClock(clock),
		services.WithReconciliationObserver(suite.observer),
	)
}

func (suite *JourneyServiceTestSuite) openJourney() domain.Journey {
	j := closedJourney(suite.cal)
	j.Closed = false
	j.EndedAt = nil
	j.KmEnd = nil
	j.BalanceEnd = nil
	return j
}

func (suite *JourneyServiceTestSuite) TestStartJourney_UsesContractSnapshot() {
	ctx := context.Background()
	contract := rentedContract(suite.cal)

	suite.contractRepo.On("ListContractsByOwner", ctx, ownerID).Return([]domain.Contract{contract}, nil).Once()
	suite.journeyRepo.On("FindOpenJourney", ctx, ownerID, "contract-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.journeyRepo.On("SaveJourney", ctx, mock.AnythingOfType("domain.Journey")).Return(nil).Once()

	journey, err := suite.service.StartJourney(ctx, ownerID, dto.StartJourneyRequest{})

	suite.Require().NoError(err)
	suite.NotEmpty(journey.JourneyID)
	suite.Equal("contract-1", journey.ContractID)
	suite.Equal("2024-03-03", journey.ReferenceDay)
	suite.Equal(int64(1000), journey.KmStart)
	suite.True(dec(100).Equal(journey.BalanceStart))
	suite.False(journey.Closed)
	suite.journeyRepo.AssertExpectations(suite.T())
}

func (suite *JourneyServiceTestSuite) TestStartJourney_RejectsSecondOpenJourney() {
	ctx := context.Background()
	contract := rentedContract(suite.cal)
	open := suite.openJourney()

	suite.contractRepo.On("FindContractByID", ctx, ownerID, "contract-1").Return(&contract, nil).Once()
	suite.journeyRepo.On("FindOpenJourney", ctx, ownerID, "contract-1").Return(&open, nil).Once()

	_, err := suite.service.StartJourney(ctx, ownerID, dto.StartJourneyRequest{ContractID: strPtr("contract-1")})

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, services.ErrJourneyAlreadyOpen)
	suite.journeyRepo.AssertNotCalled(suite.T(), "SaveJourney", mock.Anything, mock.Anything)
}

func (suite *JourneyServiceTestSuite) TestStartJourney_FinishedContract() {
	ctx := context.Background()
	contract := rentedContract(suite.cal)
	contract.Status = domain.ContractFinished

	suite.contractRepo.On("FindContractByID", ctx, ownerID, "contract-1").Return(&contract, nil).Once()

	_, err := suite.service.StartJourney(ctx, ownerID, dto.StartJourneyRequest{ContractID: strPtr("contract-1")})

	suite.ErrorIs(err, services.ErrContractFinished)
}

func (suite *JourneyServiceTestSuite) TestCloseJourney_CreatesAutomaticTax() {
	ctx := context.Background()
	contract := rentedContract(suite.cal)
	open := suite.openJourney()
	endedAt := open.StartedAt.Add(4 * time.Hour)

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&open, nil).Once()
	suite.contractRepo.On("FindContractByID", ctx, ownerID, "contract-1").Return(&contract, nil).Once()
	suite.journeyRepo.On("SaveJourneyReconciliation", ctx, mock.MatchedBy(func(j domain.Journey) bool {
		return j.Closed && j.KmEnd != nil && *j.KmEnd == 1120
	})).Return([]domain.Entry{}, nil).Once()

	plan, err := suite.service.CloseJourney(ctx, ownerID, "journey-1", dto.CloseJourneyRequest{
		EndedAt:    &endedAt,
		KmEnd:      int64Ptr(1120),
		BalanceEnd: decPtr(80),
	})

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeCreated, plan.Outcome)
	suite.True(dec(20).Equal(plan.Tax), "tax = 100 + 0 - 80")
	suite.Require().NotNil(plan.AutomaticEntry)
	suite.Equal(accounting.AutomaticEntryID("journey-1"), plan.AutomaticEntry.EntryID)
	suite.Equal(domain.AppTax, plan.AutomaticEntry.Kind)
	suite.Equal(domain.OriginAutomatic, plan.AutomaticEntry.Origin)
	suite.Require().Len(suite.journeyRepo.saved, 1)
	saved := suite.journeyRepo.saved[0]
	suite.True(saved.Journey.Closed)
	suite.Equal(int64(1120), saved.Contract.CurrentOdometer)
	suite.True(dec(80).Equal(saved.Contract.AppBalance))
	suite.Equal([]domain.ReconciliationOutcome{domain.OutcomeCreated}, suite.observer.outcomes)
}

func (suite *JourneyServiceTestSuite) TestCloseJourney_CountsLinkedRecharges() {
	ctx := context.Background()
	contract := rentedContract(suite.cal)
	open := suite.openJourney()
	recharge := domain.Entry{
		EntryID:    "recharge-1",
		OwnerID:    ownerID,
		ContractID: "contract-1",
		JourneyID:  strPtr("journey-1"),
		Kind:       domain.AppRecharge,
		Amount:     dec(50),
		Date:       open.StartedAt.Add(time.Hour),
		IsRecharge: true,
		Origin:     domain.OriginManual,
	}

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&open, nil).Once()
	suite.contractRepo.On("FindContractByID", ctx, ownerID, "contract-1").Return(&contract, nil).Once()
	suite.journeyRepo.On("SaveJourneyReconciliation", ctx, mock.AnythingOfType("domain.Journey")).Return([]domain.Entry{recharge}, nil).Once()

	plan, err := suite.service.CloseJourney(ctx, ownerID, "journey-1", dto.CloseJourneyRequest{
		KmEnd:      int64Ptr(1100),
		BalanceEnd: decPtr(80),
	})

	suite.Require().NoError(err)
	suite.True(dec(50).Equal(plan.RechargesInJourney))
	suite.True(dec(70).Equal(plan.Tax), "tax = 100 + 50 - 80")
}

func (suite *JourneyServiceTestSuite) TestCloseJourney_RejectsOdometerRollback() {
	ctx := context.Background()
	contract := rentedContract(suite.cal)
	open := suite.openJourney()

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&open, nil).Once()
	suite.contractRepo.On("FindContractByID", ctx, ownerID, "contract-1").Return(&contract, nil).Once()
	suite.journeyRepo.On("SaveJourneyReconciliation", ctx, mock.AnythingOfType("domain.Journey")).Return([]domain.Entry{}, nil).Once()

	_, err := suite.service.CloseJourney(ctx, ownerID, "journey-1", dto.CloseJourneyRequest{
		KmEnd:      int64Ptr(900),
		BalanceEnd: decPtr(80),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.journeyRepo.saved, "a rejected plan rolls back")
	suite.Empty(suite.observer.outcomes)
}

func (suite *JourneyServiceTestSuite) TestCloseJourney_AlreadyClosed() {
	ctx := context.Background()
	closed := closedJourney(suite.cal)

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&closed, nil).Once()

	_, err := suite.service.CloseJourney(ctx, ownerID, "journey-1", dto.CloseJourneyRequest{
		KmEnd:      int64Ptr(1200),
		BalanceEnd: decPtr(10),
	})

	suite.ErrorIs(err, services.ErrJourneyClosed)
}

func (suite *JourneyServiceTestSuite) TestReconcileJourney_RemovesStaleAutomaticEntry() {
	ctx := context.Background()
	contract := rentedContract(suite.cal)
	journey := closedJourney(suite.cal)
	journey.BalanceEnd = decPtr(150) // Balance grew, no tax
	prior := domain.Entry{
		EntryID:    accounting.AutomaticEntryID("journey-1"),
		ContractID: "contract-1",
		JourneyID:  strPtr("journey-1"),
		Kind:       domain.AppTax,
		Amount:     dec(20),
		Origin:     domain.OriginAutomatic,
	}

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&journey, nil).Once()
	suite.contractRepo.On("FindContractByID", ctx, ownerID, "contract-1").Return(&contract, nil).Once()
	suite.journeyRepo.On("SaveJourneyReconciliation", ctx, mock.AnythingOfType("domain.Journey")).Return([]domain.Entry{prior}, nil).Once()

	plan, err := suite.service.ReconcileJourney(ctx, ownerID, "journey-1")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeRemoved, plan.Outcome)
	suite.Nil(plan.AutomaticEntry)
	suite.True(plan.Tax.IsNegative())
	suite.journeyRepo.AssertExpectations(suite.T())
}

func (suite *JourneyServiceTestSuite) TestReconcileJourney_MissingContract() {
	ctx := context.Background()
	journey := closedJourney(suite.cal)

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&journey, nil).Once()
	suite.contractRepo.On("FindContractByID", ctx, ownerID, "contract-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.journeyRepo.On("SaveJourneyReconciliation", ctx, mock.AnythingOfType("domain.Journey")).Return([]domain.Entry{}, nil).Once()

	_, err := suite.service.ReconcileJourney(ctx, ownerID, "journey-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.journeyRepo.saved)
}

func (suite *JourneyServiceTestSuite) TestReconcileJourney_PlansFromEntriesReadInTransaction() {
	ctx := context.Background()
	contract := rentedContract(suite.cal)
	journey := closedJourney(suite.cal)
	lateTopUp := domain.Entry{
		EntryID:    "recharge-late",
		OwnerID:    ownerID,
		ContractID: "contract-1",
		JourneyID:  strPtr("journey-1"),
		Kind:       domain.AppRecharge,
		Amount:     dec(30),
		Date:       journey.StartedAt.Add(time.Hour),
		IsRecharge: true,
		Origin:     domain.OriginManual,
	}

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&journey, nil).Once()
	suite.contractRepo.On("FindContractByID", ctx, ownerID, "contract-1").Return(&contract, nil).Once()
	// Only the locked read returns the top-up; nothing is read beforehand
	suite.journeyRepo.On("SaveJourneyReconciliation", ctx, mock.AnythingOfType("domain.Journey")).Return([]domain.Entry{lateTopUp}, nil).Once()

	plan, err := suite.service.ReconcileJourney(ctx, ownerID, "journey-1")

	suite.Require().NoError(err)
	suite.True(dec(30).Equal(plan.RechargesInJourney))
	suite.True(dec(50).Equal(plan.Tax), "tax = 100 + 30 - 80")
}

func (suite *JourneyServiceTestSuite) TestReconcileJourney_PersistFailure() {
	ctx := context.Background()
	contract := rentedContract(suite.cal)
	journey := closedJourney(suite.cal)

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&journey, nil).Once()
	suite.contractRepo.On("FindContractByID", ctx, ownerID, "contract-1").Return(&contract, nil).Once()
	suite.journeyRepo.On("SaveJourneyReconciliation", ctx, mock.AnythingOfType("domain.Journey")).Return(nil, apperrors.ErrInternal).Once()

	_, err := suite.service.ReconcileJourney(ctx, ownerID, "journey-1")

	suite.ErrorIs(err, apperrors.ErrInternal)
	suite.Empty(suite.observer.outcomes)
}

func (suite *JourneyServiceTestSuite) TestUpdateJourney_OpenIsRefused() {
	ctx := context.Background()
	open := suite.openJourney()

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&open, nil).Once()

	_, err := suite.service.UpdateJourney(ctx, ownerID, "journey-1", dto.UpdateJourneyRequest{KmStart: int64Ptr(990)})

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, services.ErrJourneyOpen)
}

func (suite *JourneyServiceTestSuite) TestUpdateJourney_ReconcilesAgain() {
	ctx := context.Background()
	contract := rentedContract(suite.cal)
	journey := closedJourney(suite.cal)

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&journey, nil).Once()
	suite.contractRepo.On("FindContractByID", ctx, ownerID, "contract-1").Return(&contract, nil).Once()
	suite.journeyRepo.On("SaveJourneyReconciliation", ctx, mock.AnythingOfType("domain.Journey")).Return([]domain.Entry{}, nil).Once()

	plan, err := suite.service.UpdateJourney(ctx, ownerID, "journey-1", dto.UpdateJourneyRequest{BalanceEnd: decPtr(60)})

	suite.Require().NoError(err)
	suite.True(dec(40).Equal(plan.Tax))
	suite.Equal(domain.OutcomeCreated, plan.Outcome)
}

func (suite *JourneyServiceTestSuite) TestDeleteJourney_Cascade() {
	ctx := context.Background()
	journey := closedJourney(suite.cal)

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&journey, nil).Once()
	suite.journeyRepo.On("DeleteJourneyCascade", ctx, ownerID, "journey-1").Return(int64(2), nil).Once()

	suite.NoError(suite.service.DeleteJourney(ctx, ownerID, "journey-1"))
	suite.journeyRepo.AssertExpectations(suite.T())
}

func (suite *JourneyServiceTestSuite) TestDeleteJourney_OpenIsRefused() {
	ctx := context.Background()
	open := suite.openJourney()

	suite.journeyRepo.On("FindJourneyByID", ctx, ownerID, "journey-1").Return(&open, nil).Once()

	err := suite.service.DeleteJourney(ctx, ownerID, "journey-1")

	suite.ErrorIs(err, services.ErrJourneyOpen)
	suite.journeyRepo.AssertNotCalled(suite.T(), "DeleteJourneyCascade", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JourneyServiceTestSuite) TestListJourneys_RejectsBadToken() {
	ctx := context.Background()

	_, err := suite.service.ListJourneys(ctx, ownerID, dto.ListJourneysParams{NextToken: "%%%"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestJourneyService(t *testing.T) {
	suite.Run(t, new(JourneyServiceTestSuite))
}
