package accounting_test

import (
	"testing"
	"time"

	"github.com/giropositivo/giro_backend/internal/apperrors"
	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedJourney(contract domain.Contract, balanceEnd float64) domain.Journey {
	start := contract.ContractStart.Add(2 * time.Hour)
	return domain.Journey{
		JourneyID:    "journey-1",
		OwnerID:      contract.OwnerID,
		ContractID:   contract.ContractID,
		ReferenceDay: "2024-03-01",
		StartedAt:    start,
		EndedAt:      timePtr(start.Add(6 * time.Hour)),
		KmStart:      1000,
		KmEnd:        int64Ptr(1150),
		BalanceStart: dec(50),
		BalanceEnd:   decPtr(balanceEnd),
		Closed:       true,
	}
}

func linkedRecharge(j domain.Journey, amount float64) domain.Entry {
	return domain.Entry{
		EntryID:    "recharge-1",
		OwnerID:    j.OwnerID,
		ContractID: j.ContractID,
		JourneyID:  strPtr(j.JourneyID),
		Kind:       domain.AppRecharge,
		Amount:     dec(amount),
		Date:       j.StartedAt.Add(time.Hour),
		Origin:     domain.OriginManual,
	}
}

func TestPlanReconciliation_PositiveTaxCreatesEntry(t *testing.T) {
	cal := saoPaulo(t)
	contract := rentedWeek(cal)
	j := closedJourney(contract, 60)
	now := j.EndedAt.Add(time.Minute)

	plan, err := accounting.PlanReconciliation(j, &contract, []domain.Entry{linkedRecharge(j, 30)}, now)
	require.NoError(t, err)

	assert.True(t, dec(30).Equal(plan.RechargesInJourney))
	assert.True(t, dec(20).Equal(plan.Tax))
	assert.Equal(t, domain.OutcomeCreated, plan.Outcome)
	require.NotNil(t, plan.AutomaticEntry)

	auto := plan.AutomaticEntry
	assert.Equal(t, accounting.AutomaticEntryID(j.JourneyID), auto.EntryID)
	assert.Equal(t, domain.AppTax, auto.Kind)
	assert.Equal(t, domain.OriginAutomatic, auto.Origin)
	assert.False(t, auto.IsRecharge)
	assert.True(t, dec(20).Equal(auto.Amount))
	assert.True(t, auto.Date.Equal(*j.EndedAt))
	assert.True(t, auto.LinkedTo(j.JourneyID))

	assert.Equal(t, int64(1150), plan.Contract.CurrentOdometer)
	assert.True(t, dec(60).Equal(plan.Contract.AppBalance))
	assert.True(t, dec(50).Equal(contract.AppBalance), "input contract must not be mutated")
}

func TestPlanReconciliation_Idempotent(t *testing.T) {
	cal := saoPaulo(t)
	contract := rentedWeek(cal)
	j := closedJourney(contract, 60)
	entries := []domain.Entry{linkedRecharge(j, 30)}

	first, err := accounting.PlanReconciliation(j, &contract, entries, *j.EndedAt)
	require.NoError(t, err)
	require.NotNil(t, first.AutomaticEntry)

	// Second run sees the entry produced by the first one.
	second, err := accounting.PlanReconciliation(j, &contract, append(entries, *first.AutomaticEntry), j.EndedAt.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, second.AutomaticEntry)

	assert.Equal(t, domain.OutcomeReplaced, second.Outcome)
	assert.Equal(t, first.AutomaticEntry.EntryID, second.AutomaticEntry.EntryID)
	assert.True(t, first.AutomaticEntry.Amount.Equal(second.AutomaticEntry.Amount))
	assert.Equal(t, first.AutomaticEntry.CreatedAt, second.AutomaticEntry.CreatedAt)
}

func TestPlanReconciliation_NonPositiveTax(t *testing.T) {
	cal := saoPaulo(t)
	contract := rentedWeek(cal)
	j := closedJourney(contract, 90)
	recharge := linkedRecharge(j, 30)

	plan, err := accounting.PlanReconciliation(j, &contract, []domain.Entry{recharge}, *j.EndedAt)
	require.NoError(t, err)
	assert.True(t, dec(-10).Equal(plan.Tax))
	assert.Nil(t, plan.AutomaticEntry)
	assert.Equal(t, domain.OutcomeNone, plan.Outcome)

	prior := domain.Entry{
		EntryID:   accounting.AutomaticEntryID(j.JourneyID),
		JourneyID: strPtr(j.JourneyID),
		Kind:      domain.AppTax,
		Origin:    domain.OriginAutomatic,
		Amount:    dec(20),
	}
	plan, err = accounting.PlanReconciliation(j, &contract, []domain.Entry{recharge, prior}, *j.EndedAt)
	require.NoError(t, err)
	assert.Nil(t, plan.AutomaticEntry)
	assert.Equal(t, domain.OutcomeRemoved, plan.Outcome)
}

func TestPlanReconciliation_IgnoresUnrelatedEntries(t *testing.T) {
	cal := saoPaulo(t)
	contract := rentedWeek(cal)
	j := closedJourney(contract, 60)

	otherContract := linkedRecharge(j, 100)
	otherContract.ContractID = "contract-other"
	unlinked := linkedRecharge(j, 100)
	unlinked.JourneyID = nil
	otherJourney := linkedRecharge(j, 100)
	otherJourney.JourneyID = strPtr("journey-2")
	revenue := linkedRecharge(j, 100)
	revenue.Kind = domain.Revenue
	flaggedTax := linkedRecharge(j, 5)
	flaggedTax.Kind = domain.AppTax
	flaggedTax.IsRecharge = true

	plan, err := accounting.PlanReconciliation(j, &contract, []domain.Entry{otherContract, unlinked, otherJourney, revenue, flaggedTax}, *j.EndedAt)
	require.NoError(t, err)
	assert.True(t, dec(5).Equal(plan.RechargesInJourney))
	assert.True(t, dec(-5).Equal(plan.Tax))
}

func TestPlanReconciliation_RejectsInvalidJourneys(t *testing.T) {
	cal := saoPaulo(t)
	contract := rentedWeek(cal)
	base := closedJourney(contract, 60)

	tests := []struct {
		name     string
		mutate   func(j *domain.Journey)
		contract *domain.Contract
		field    string
	}{
		{name: "missing contract", mutate: func(j *domain.Journey) {}, contract: nil, field: "contract"},
		{name: "open journey", mutate: func(j *domain.Journey) { j.Closed = false }, contract: &contract, field: "closed"},
		{name: "missing end", mutate: func(j *domain.Journey) { j.EndedAt = nil }, contract: &contract, field: "endedAt"},
		{name: "end before start", mutate: func(j *domain.Journey) { j.EndedAt = timePtr(j.StartedAt.Add(-time.Minute)) }, contract: &contract, field: "endedAt"},
		{name: "missing end balance", mutate: func(j *domain.Journey) { j.BalanceEnd = nil }, contract: &contract, field: "balanceEnd"},
		{name: "odometer goes back", mutate: func(j *domain.Journey) { j.KmEnd = int64Ptr(900) }, contract: &contract, field: "kmEnd"},
		{name: "foreign contract", mutate: func(j *domain.Journey) { j.ContractID = "contract-other" }, contract: &contract, field: "contract"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := base
			tt.mutate(&j)
			_, err := accounting.PlanReconciliation(j, tt.contract, nil, time.Now())
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)

			var invalid *apperrors.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestAutomaticEntryID_Deterministic(t *testing.T) {
	assert.Equal(t, accounting.AutomaticEntryID("journey-1"), accounting.AutomaticEntryID("journey-1"))
	assert.NotEqual(t, accounting.AutomaticEntryID("journey-1"), accounting.AutomaticEntryID("journey-2"))
}
