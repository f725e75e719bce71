package accounting_test

import (
	"testing"
	"time"

	"github.com/giropositivo/giro_backend/internal/apperrors"
	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractCostInPeriod_OwnedFebruary(t *testing.T) {
	cal := saoPaulo(t)
	contract := ownedCar(cal)
	loc := cal.Location()

	dayStart, dayEnd := cal.DayBounds(time.Date(2023, 2, 10, 9, 0, 0, 0, loc))
	oneDay, err := accounting.ContractCostInPeriod(cal, &contract, dayStart, dayEnd)
	require.NoError(t, err)
	assert.Equal(t, "53.57", oneDay.StringFixed(2))
	assert.True(t, dec(1500).Div(decimal.NewFromInt(28)).Equal(oneDay))

	month, err := accounting.ContractCostInPeriod(cal, &contract,
		time.Date(2023, 2, 1, 0, 0, 0, 0, loc), cal.EndOfDay(time.Date(2023, 2, 28, 0, 0, 0, 0, loc)))
	require.NoError(t, err)
	assert.True(t, dec(1500).Equal(month), "full month must be exact, got %s", month)
}

func TestContractCostInPeriod_OwnedDaySumConsistency(t *testing.T) {
	cal := saoPaulo(t)
	contract := ownedCar(cal)
	loc := cal.Location()

	for _, month := range []time.Month{time.February, time.April, time.July} {
		first := time.Date(2023, month, 1, 0, 0, 0, 0, loc)
		whole, err := accounting.ContractCostInPeriod(cal, &contract, first, cal.EndOfDay(first.AddDate(0, 1, -1)))
		require.NoError(t, err)

		sum := decimal.Zero
		for d := first; d.Before(first.AddDate(0, 1, 0)); d = cal.NextDay(d) {
			s, e := cal.DayBounds(d)
			c, err := accounting.ContractCostInPeriod(cal, &contract, s, e)
			require.NoError(t, err)
			sum = sum.Add(c)
		}
		assert.True(t, whole.Round(6).Equal(sum.Round(6)), "%s: whole %s, day sum %s", month, whole, sum)
	}
}

func TestContractCostInPeriod_OwnedAcrossMonthBoundary(t *testing.T) {
	cal := saoPaulo(t)
	contract := ownedCar(cal)
	loc := cal.Location()

	// Feb 28 at 1500/28 plus Mar 1 at 1500/31. Partial days accrue a full day.
	start := time.Date(2023, 2, 28, 18, 0, 0, 0, loc)
	end := time.Date(2023, 3, 1, 6, 0, 0, 0, loc)
	got, err := accounting.ContractCostInPeriod(cal, &contract, start, end)
	require.NoError(t, err)

	want := dec(1500).Div(decimal.NewFromInt(28)).Add(dec(1500).Div(decimal.NewFromInt(31)))
	assert.Equal(t, want.StringFixed(8), got.StringFixed(8))
}

func TestContractCostInPeriod_OwnedEndAtMidnightCountsThatDay(t *testing.T) {
	cal := saoPaulo(t)
	contract := ownedCar(cal)
	loc := cal.Location()

	// Feb 27, Feb 28 and Mar 1: a range ending on local midnight touches Mar 1.
	start := time.Date(2023, 2, 27, 10, 0, 0, 0, loc)
	end := time.Date(2023, 3, 1, 0, 0, 0, 0, loc)
	got, err := accounting.ContractCostInPeriod(cal, &contract, start, end)
	require.NoError(t, err)

	want := dec(1500).Mul(decimal.NewFromInt(2)).Div(decimal.NewFromInt(28)).Add(dec(1500).Div(decimal.NewFromInt(31)))
	assert.Equal(t, want.StringFixed(8), got.StringFixed(8))

	beforeMidnight, err := accounting.ContractCostInPeriod(cal, &contract, start, end.Add(-time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, dec(1500).Mul(decimal.NewFromInt(2)).Div(decimal.NewFromInt(28)).StringFixed(8), beforeMidnight.StringFixed(8))
}

func TestContractCostInPeriod_RentedCivilDayIs1439Minutes(t *testing.T) {
	cal := saoPaulo(t)
	contract := rentedWeek(cal)

	dayStart, dayEnd := cal.DayBounds(contract.ContractStart.AddDate(0, 0, 2))
	got, err := accounting.ContractCostInPeriod(cal, &contract, dayStart, dayEnd)
	require.NoError(t, err)
	assert.Equal(t, "428.2738", got.StringFixed(4))
}

func TestContractCostInPeriod_Rented(t *testing.T) {
	cal := saoPaulo(t)
	contract := rentedWeek(cal)

	firstTwoDays, err := accounting.ContractCostInPeriod(cal, &contract, contract.ContractStart, contract.ContractStart.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "857.14", firstTwoDays.StringFixed(2))

	full, err := accounting.ContractCostInPeriod(cal, &contract, contract.ContractStart, contract.ContractEnd)
	require.NoError(t, err)
	assert.True(t, dec(3000).Equal(full), "full window must equal the contract value, got %s", full)

	wider, err := accounting.ContractCostInPeriod(cal, &contract, contract.ContractStart.AddDate(0, -1, 0), contract.ContractEnd.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.True(t, dec(3000).Equal(wider), "range is clipped to the contract window")
}

func TestContractCostInPeriod_OutsideWindowIsZero(t *testing.T) {
	cal := saoPaulo(t)
	rented := rentedWeek(cal)
	owned := ownedCar(cal)

	tests := []struct {
		name     string
		contract domain.Contract
		start    time.Time
		end      time.Time
	}{
		{"rented before", rented, rented.ContractStart.AddDate(0, 0, -3), rented.ContractStart.AddDate(0, 0, -1)},
		{"rented after", rented, rented.ContractEnd.Add(time.Hour), rented.ContractEnd.AddDate(0, 0, 2)},
		{"rented touching start", rented, rented.ContractStart.Add(-time.Hour), rented.ContractStart},
		{"owned before", owned, owned.ContractStart.AddDate(0, -2, 0), owned.ContractStart.AddDate(0, -1, 0)},
		{"inverted range", rented, rented.ContractEnd, rented.ContractStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.ContractCostInPeriod(cal, &tt.contract, tt.start, tt.end)
			require.NoError(t, err)
			assert.True(t, got.IsZero(), "got %s", got)
		})
	}
}

func TestContractCostInPeriod_InvalidInput(t *testing.T) {
	cal := saoPaulo(t)
	contract := rentedWeek(cal)

	_, err := accounting.ContractCostInPeriod(cal, &contract, time.Time{}, contract.ContractEnd)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "rangeStart", invalid.Field)

	broken := contract
	broken.ContractEnd = broken.ContractStart.Add(-time.Hour)
	_, err = accounting.ContractCostInPeriod(cal, &broken, contract.ContractStart, contract.ContractEnd)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestContractCostInPeriod_NilContract(t *testing.T) {
	cal := saoPaulo(t)
	got, err := accounting.ContractCostInPeriod(cal, nil, time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestDailyProfitGoal(t *testing.T) {
	cal := saoPaulo(t)
	rented := rentedWeek(cal)
	owned := ownedCar(cal)

	assert.True(t, dec(100).Equal(accounting.DailyProfitGoal(cal, &rented, rented.ContractStart)))
	assert.True(t, dec(100).Equal(accounting.DailyProfitGoal(cal, &owned, time.Date(2023, 1, 15, 12, 0, 0, 0, cal.Location()))))
	assert.True(t, accounting.DailyProfitGoal(cal, nil, time.Now()).IsZero())

	sameDay := rented
	sameDay.ContractEnd = sameDay.ContractStart.Add(2 * time.Hour)
	assert.True(t, dec(700).Equal(accounting.DailyProfitGoal(cal, &sameDay, sameDay.ContractStart)), "denominator is at least one day")
}
