package accounting

import (
	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// PeriodReport aggregates entries and journeys whose civil day falls inside r.
// A non-empty platform restricts revenue and wallet debit totals to entries
// tagged with it; fuel, plain expenses and contract cost ignore the filter.
func PeriodReport(cal *calendar.Calendar, r calendar.Range, contract *domain.Contract, entries []domain.Entry, journeys []domain.Journey, platform domain.Platform) (domain.PeriodReport, error) {
	report := domain.PeriodReport{
		RangeStart:     r.Start,
		RangeEnd:       r.End,
		Platform:       platform,
		Revenue:        decimal.Zero,
		FuelCost:       decimal.Zero,
		AppTaxCost:     decimal.Zero,
		Expenses:       decimal.Zero,
		TotalDiscounts: decimal.Zero,
		TotalLiters:    decimal.Zero,
	}

	matches := func(e domain.Entry) bool {
		return platform == "" || e.Platform == platform
	}

	for _, e := range entries {
		if !cal.ContainsDay(r, cal.CivilDate(e.Date)) {
			continue
		}
		switch {
		case e.Kind == domain.Revenue:
			if !matches(e) {
				continue
			}
			report.Revenue = report.Revenue.Add(e.Amount)
		case e.IsWalletDebit():
			if !matches(e) {
				continue
			}
			report.AppTaxCost = report.AppTaxCost.Add(e.Amount)
		case e.Kind == domain.Fuel:
			report.FuelCost = report.FuelCost.Add(e.Amount)
			if liters, ok := e.Liters(); ok {
				report.TotalLiters = report.TotalLiters.Add(liters)
			}
		case e.Kind == domain.Expense:
			report.Expenses = report.Expenses.Add(e.Amount)
		default:
			// Wallet credits move money between accounts and are not spend.
			continue
		}
		report.TotalDiscounts = report.TotalDiscounts.Add(e.DiscountAmount())
	}

	for _, j := range journeys {
		if !cal.ContainsDay(r, j.ReferenceDay) {
			continue
		}
		report.JourneyCount++
		report.TotalDistance += j.Distance()
		report.TotalMinutes += j.DurationMinutes()
	}

	contractCost, err := ContractCostInPeriod(cal, contract, r.Start, r.End)
	if err != nil {
		return domain.PeriodReport{}, err
	}
	report.ContractCostInPeriod = contractCost

	report.Breakdown = domain.CostBreakdown{
		Fuel:     report.FuelCost,
		AppTax:   report.AppTaxCost,
		Contract: report.ContractCostInPeriod,
		Other:    report.Expenses,
	}
	report.TotalExpenses = report.Breakdown.Total()
	report.NetProfit = report.Revenue.Sub(report.TotalExpenses)

	distance := decimal.NewFromInt(report.TotalDistance)
	report.TotalHours = decimal.NewFromInt(report.TotalMinutes).Div(sixty)
	report.RevenuePerHour = safeDiv(report.Revenue, report.TotalHours)
	report.RevenuePerKm = safeDiv(report.Revenue, distance)
	report.KmPerLiter = safeDiv(distance, report.TotalLiters)
	return report, nil
}
