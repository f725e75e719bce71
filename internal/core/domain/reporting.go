package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus summarizes how a day's net profit compares with its goal.
type GoalStatus string

const (
	GoalReached  GoalStatus = "GOAL_REACHED"
	GoalPositive GoalStatus = "POSITIVE"
	GoalNegative GoalStatus = "NEGATIVE"
)

// DailyStats is the profitability summary of a single civil day.
type DailyStats struct {
	Day                string          `json:"day"` // YYYY-MM-DD
	Revenue            decimal.Decimal `json:"revenue"`
	Expenses           decimal.Decimal `json:"expenses"` // Plain EXPENSE entries only
	FuelCost           decimal.Decimal `json:"fuelCost"`
	AppTaxCost         decimal.Decimal `json:"appTaxCost"`
	RentalCost         decimal.Decimal `json:"rentalCost"`
	NetProfit          decimal.Decimal `json:"netProfit"`
	ProfitGoal         decimal.Decimal `json:"profitGoal"`
	FuelCostPerKm      decimal.Decimal `json:"fuelCostPerKm"`
	TotalDiscounts     decimal.Decimal `json:"totalDiscounts"`
	AppBalance         decimal.Decimal `json:"appBalance"`
	JourneyDistance    int64           `json:"journeyDistance"`
	JourneyTimeMinutes int64           `json:"journeyTimeMinutes"`
	GoalStatus         GoalStatus      `json:"goalStatus"`
}

// EvaluateGoal classifies netProfit against goal.
func EvaluateGoal(netProfit, goal decimal.Decimal) GoalStatus {
	switch {
	case netProfit.GreaterThanOrEqual(goal):
		return GoalReached
	case !netProfit.IsNegative():
		return GoalPositive
	default:
		return GoalNegative
	}
}

// CostBreakdown splits a period's total cost by source.
type CostBreakdown struct {
	Fuel     decimal.Decimal `json:"fuel"`
	AppTax   decimal.Decimal `json:"appTax"`
	Contract decimal.Decimal `json:"contract"`
	Other    decimal.Decimal `json:"other"`
}

// Total is the sum of every cost source.
func (b CostBreakdown) Total() decimal.Decimal {
	return b.Fuel.Add(b.AppTax).Add(b.Contract).Add(b.Other)
}

// PeriodReport aggregates KPIs over an arbitrary instant range.
type PeriodReport struct {
	RangeStart           time.Time       `json:"rangeStart"`
	RangeEnd             time.Time       `json:"rangeEnd"`
	Platform             Platform        `json:"platform,omitempty"`
	Revenue              decimal.Decimal `json:"revenue"`
	FuelCost             decimal.Decimal `json:"fuelCost"`
	AppTaxCost           decimal.Decimal `json:"appTaxCost"`
	Expenses             decimal.Decimal `json:"expenses"`
	ContractCostInPeriod decimal.Decimal `json:"contractCostInPeriod"`
	TotalExpenses        decimal.Decimal `json:"totalExpenses"`
	NetProfit            decimal.Decimal `json:"netProfit"`
	TotalDiscounts       decimal.Decimal `json:"totalDiscounts"`
	TotalDistance        int64           `json:"totalDistance"`
	TotalMinutes         int64           `json:"totalMinutes"`
	TotalHours           decimal.Decimal `json:"totalHours"`
	TotalLiters          decimal.Decimal `json:"totalLiters"`
	RevenuePerHour       decimal.Decimal `json:"revenuePerHour"`
	RevenuePerKm         decimal.Decimal `json:"revenuePerKm"`
	KmPerLiter           decimal.Decimal `json:"kmPerLiter"`
	JourneyCount         int             `json:"journeyCount"`
	Breakdown            CostBreakdown   `json:"breakdown"`
}

// ReportPreset selects how a period report range is derived.
type ReportPreset string

const (
	PresetLastDays ReportPreset = "last_days"
	PresetCustom   ReportPreset = "custom"
	PresetContract ReportPreset = "contract"
)

// PeriodReportQuery carries the parameters of a period report request.
type PeriodReportQuery struct {
	Preset     ReportPreset
	Days       int    // last_days
	From       string // custom, YYYY-MM-DD
	To         string // custom, YYYY-MM-DD
	ContractID string // optional, defaults to the active contract
	Platform   Platform
}
