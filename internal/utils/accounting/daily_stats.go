package accounting

import (
	"time"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
	"github.com/shopspring/decimal"
)

// DailyStats summarizes the civil day containing day. Entries are selected by
// the civil date of their instant and journeys by their reference day. A nil
// contract yields zero contract cost and goal.
func DailyStats(cal *calendar.Calendar, day time.Time, contract *domain.Contract, entries []domain.Entry, journeys []domain.Journey) (domain.DailyStats, error) {
	dayStart, dayEnd := cal.DayBounds(day)
	civil := cal.CivilDate(dayStart)

	stats := domain.DailyStats{
		Day:            civil,
		Revenue:        decimal.Zero,
		Expenses:       decimal.Zero,
		FuelCost:       decimal.Zero,
		AppTaxCost:     decimal.Zero,
		TotalDiscounts: decimal.Zero,
		AppBalance:     decimal.Zero,
	}

	for _, e := range entries {
		if cal.CivilDate(e.Date) != civil {
			continue
		}
		switch {
		case e.Kind == domain.Revenue:
			stats.Revenue = stats.Revenue.Add(e.Amount)
		case e.Kind == domain.Expense:
			stats.Expenses = stats.Expenses.Add(e.Amount)
		case e.Kind == domain.Fuel:
			stats.FuelCost = stats.FuelCost.Add(e.Amount)
		case e.IsWalletDebit():
			stats.AppTaxCost = stats.AppTaxCost.Add(e.Amount)
		}
		stats.TotalDiscounts = stats.TotalDiscounts.Add(e.DiscountAmount())
	}

	for _, j := range journeys {
		if j.ReferenceDay != civil {
			continue
		}
		stats.JourneyDistance += j.Distance()
		stats.JourneyTimeMinutes += j.DurationMinutes()
	}

	rentalCost, err := ContractCostInPeriod(cal, contract, dayStart, dayEnd)
	if err != nil {
		return domain.DailyStats{}, err
	}
	stats.RentalCost = rentalCost

	stats.NetProfit = stats.Revenue.Sub(stats.RentalCost.Add(stats.FuelCost).Add(stats.AppTaxCost).Add(stats.Expenses))
	stats.ProfitGoal = DailyProfitGoal(cal, contract, dayStart)
	stats.FuelCostPerKm = safeDiv(stats.FuelCost, decimal.NewFromInt(stats.JourneyDistance))
	stats.GoalStatus = domain.EvaluateGoal(stats.NetProfit, stats.ProfitGoal)
	if contract != nil {
		stats.AppBalance = contract.AppBalance
	}
	return stats, nil
}

func safeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}
