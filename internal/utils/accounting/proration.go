// Package accounting holds the pure cost, profitability and reconciliation
// engines. Functions here never perform I/O and never mutate their inputs.
package accounting

import (
	"time"

	"github.com/giropositivo/giro_backend/internal/apperrors"
	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
	"github.com/shopspring/decimal"
)

// ContractCostInPeriod returns the share of the contract's cost attributable
// to [rangeStart, rangeEnd]. The range is first clipped to the contract window.
//
// OWNED contracts accrue (contractValue + carInstallment) / daysInMonth for
// every civil day touched by the clipped range, including the day of an end
// that falls exactly on local midnight. RENTED contracts accrue contractValue
// linearly by whole minutes over the full contract duration, so a civil day
// ending at 23:59:59.999 accrues 1439 minutes.
//
// A nil contract costs nothing. Zero instants or an inverted contract window
// are reported as *apperrors.InvalidInputError.
func ContractCostInPeriod(cal *calendar.Calendar, contract *domain.Contract, rangeStart, rangeEnd time.Time) (decimal.Decimal, error) {
	if contract == nil {
		return decimal.Zero, nil
	}
	if err := validateCostInputs(contract, rangeStart, rangeEnd); err != nil {
		return decimal.Zero, err
	}

	window := calendar.Range{Start: contract.ContractStart, End: contract.ContractEnd}
	actual := calendar.Range{Start: rangeStart, End: rangeEnd}.Clip(window)
	if actual.IsEmpty() {
		return decimal.Zero, nil
	}

	switch contract.Type {
	case domain.Owned:
		return ownedCost(cal, contract.MonthlyCost(), actual), nil
	case domain.Rented:
		return rentedCost(contract, actual), nil
	default:
		return decimal.Zero, apperrors.NewInvalidInputError("type", "unknown vehicle type "+string(contract.Type))
	}
}

func validateCostInputs(contract *domain.Contract, rangeStart, rangeEnd time.Time) error {
	switch {
	case rangeStart.IsZero():
		return apperrors.NewInvalidInputError("rangeStart", "missing instant")
	case rangeEnd.IsZero():
		return apperrors.NewInvalidInputError("rangeEnd", "missing instant")
	case contract.ContractStart.IsZero():
		return apperrors.NewInvalidInputError("contractStart", "missing instant")
	case contract.ContractEnd.IsZero():
		return apperrors.NewInvalidInputError("contractEnd", "missing instant")
	case contract.ContractEnd.Before(contract.ContractStart):
		return apperrors.NewInvalidInputError("contractEnd", "before contract start")
	}
	return nil
}

// ownedCost walks the civil days from the day of r.Start through the day of
// r.End month by month. Each month contributes monthly * days / daysInMonth so
// a fully covered month sums to monthly exactly.
func ownedCost(cal *calendar.Calendar, monthly decimal.Decimal, r calendar.Range) decimal.Decimal {
	total := decimal.Zero
	day := cal.StartOfDay(r.Start)

	for !day.After(r.End) {
		local := cal.In(day)
		year, month := local.Year(), local.Month()
		daysInMonth := cal.DaysInMonth(day)

		days := 0
		for !day.After(r.End) {
			l := cal.In(day)
			if l.Year() != year || l.Month() != month {
				break
			}
			days++
			day = cal.NextDay(day)
		}

		total = total.Add(monthly.Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(int64(daysInMonth))))
	}
	return total
}

func rentedCost(contract *domain.Contract, r calendar.Range) decimal.Decimal {
	overlap := calendar.MinutesBetween(r.End, r.Start)
	if overlap <= 0 {
		return decimal.Zero
	}
	totalMinutes := calendar.MinutesBetween(contract.ContractEnd, contract.ContractStart)
	if totalMinutes < 1 {
		totalMinutes = 1
	}
	return contract.ContractValue.Mul(decimal.NewFromInt(overlap)).Div(decimal.NewFromInt(totalMinutes))
}

// DailyProfitGoal is the flat daily share of the contract's profit goal for
// the civil day containing day. OWNED goals are monthly and divide by the
// days of that month; RENTED goals cover the whole term and divide by its
// calendar day count.
func DailyProfitGoal(cal *calendar.Calendar, contract *domain.Contract, day time.Time) decimal.Decimal {
	if contract == nil {
		return decimal.Zero
	}
	if contract.Type == domain.Owned {
		return contract.ProfitGoal.Div(decimal.NewFromInt(int64(cal.DaysInMonth(day))))
	}
	days := cal.CalendarDaysBetween(contract.ContractEnd, contract.ContractStart)
	if days < 1 {
		days = 1
	}
	return contract.ProfitGoal.Div(decimal.NewFromInt(int64(days)))
}
