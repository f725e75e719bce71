package dto

import (
	"time"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DailyStatsParams defines query parameters for the daily summary.
type DailyStatsParams struct {
	Date       string `form:"date" binding:"omitempty,datetime=2006-01-02"` // Defaults to today
	ContractID string `form:"contractID"`
}

// PeriodReportParams defines query parameters for the period report.
type PeriodReportParams struct {
	Preset     domain.ReportPreset `form:"preset,default=last_days" binding:"omitempty,oneof=last_days custom contract"`
	Days       int                 `form:"days,default=7" binding:"min=0,max=366"`
	From       string              `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string              `form:"to" binding:"omitempty,datetime=2006-01-02"`
	ContractID string              `form:"contractID"`
	Platform   domain.Platform     `form:"platform" binding:"omitempty,oneof=Uber 99 inDrive Particular Outro"`
}

// ToQuery converts the params to the service query.
func (p PeriodReportParams) ToQuery() domain.PeriodReportQuery {
	return domain.PeriodReportQuery{
		Preset:     p.Preset,
		Days:       p.Days,
		From:       p.From,
		To:         p.To,
		ContractID: p.ContractID,
		Platform:   p.Platform,
	}
}

// DailyStatsResponse represents the daily summary response.
type DailyStatsResponse struct {
	Day                string            `json:"day"`
	Revenue            decimal.Decimal   `json:"revenue"`
	Expenses           decimal.Decimal   `json:"expenses"`
	FuelCost           decimal.Decimal   `json:"fuelCost"`
	AppTaxCost         decimal.Decimal   `json:"appTaxCost"`
	RentalCost         decimal.Decimal   `json:"rentalCost"`
	NetProfit          decimal.Decimal   `json:"netProfit"`
	ProfitGoal         decimal.Decimal   `json:"profitGoal"`
	FuelCostPerKm      decimal.Decimal   `json:"fuelCostPerKm"`
	TotalDiscounts     decimal.Decimal   `json:"totalDiscounts"`
	AppBalance         decimal.Decimal   `json:"appBalance"`
	JourneyDistance    int64             `json:"journeyDistance"`
	JourneyTimeMinutes int64             `json:"journeyTimeMinutes"`
	GoalStatus         domain.GoalStatus `json:"goalStatus"`
}

// ToDailyStatsResponse converts domain.DailyStats to its DTO.
func ToDailyStatsResponse(s *domain.DailyStats) DailyStatsResponse {
	return DailyStatsResponse{
		Day:                s.Day,
		Revenue:            money(s.Revenue),
		Expenses:           money(s.Expenses),
		FuelCost:           money(s.FuelCost),
		AppTaxCost:         money(s.AppTaxCost),
		RentalCost:         money(s.RentalCost),
		NetProfit:          money(s.NetProfit),
		ProfitGoal:         money(s.ProfitGoal),
		FuelCostPerKm:      money(s.FuelCostPerKm),
		TotalDiscounts:     money(s.TotalDiscounts),
		AppBalance:         money(s.AppBalance),
		JourneyDistance:    s.JourneyDistance,
		JourneyTimeMinutes: s.JourneyTimeMinutes,
		GoalStatus:         s.GoalStatus,
	}
}

// CostBreakdownResponse splits total cost by source.
type CostBreakdownResponse struct {
	Fuel     decimal.Decimal `json:"fuel"`
	AppTax   decimal.Decimal `json:"appTax"`
	Contract decimal.Decimal `json:"contract"`
	Other    decimal.Decimal `json:"other"`
}

// PeriodReportResponse represents the period report response.
type PeriodReportResponse struct {
	From                 time.Time             `json:"from"`
	To                   time.Time             `json:"to"`
	Platform             domain.Platform       `json:"platform,omitempty"`
	Revenue              decimal.Decimal       `json:"revenue"`
	FuelCost             decimal.Decimal       `json:"fuelCost"`
	AppTaxCost           decimal.Decimal       `json:"appTaxCost"`
	Expenses             decimal.Decimal       `json:"expenses"`
	ContractCostInPeriod decimal.Decimal       `json:"contractCostInPeriod"`
	TotalExpenses        decimal.Decimal       `json:"totalExpenses"`
	NetProfit            decimal.Decimal       `json:"netProfit"`
	TotalDiscounts       decimal.Decimal       `json:"totalDiscounts"`
	TotalDistance        int64                 `json:"totalDistance"`
	TotalHours           decimal.Decimal       `json:"totalHours"`
	TotalLiters          decimal.Decimal       `json:"totalLiters"`
	RevenuePerHour       decimal.Decimal       `json:"revenuePerHour"`
	RevenuePerKm         decimal.Decimal       `json:"revenuePerKm"`
	KmPerLiter           decimal.Decimal       `json:"kmPerLiter"`
	JourneyCount         int                   `json:"journeyCount"`
	Breakdown            CostBreakdownResponse `json:"breakdown"`
}

// ToPeriodReportResponse converts domain.PeriodReport to its DTO.
func ToPeriodReportResponse(r *domain.PeriodReport) PeriodReportResponse {
	return PeriodReportResponse{
		From:                 r.RangeStart,
		To:                   r.RangeEnd,
		Platform:             r.Platform,
		Revenue:              money(r.Revenue),
		FuelCost:             money(r.FuelCost),
		AppTaxCost:           money(r.AppTaxCost),
		Expenses:             money(r.Expenses),
		ContractCostInPeriod: money(r.ContractCostInPeriod),
		TotalExpenses:        money(r.TotalExpenses),
		NetProfit:            money(r.NetProfit),
		TotalDiscounts:       money(r.TotalDiscounts),
		TotalDistance:        r.TotalDistance,
		TotalHours:           r.TotalHours.Round(2),
		TotalLiters:          r.TotalLiters.Round(2),
		RevenuePerHour:       money(r.RevenuePerHour),
		RevenuePerKm:         money(r.RevenuePerKm),
		KmPerLiter:           r.KmPerLiter.Round(2),
		JourneyCount:         r.JourneyCount,
		Breakdown: CostBreakdownResponse{
			Fuel:     money(r.Breakdown.Fuel),
			AppTax:   money(r.Breakdown.AppTax),
			Contract: money(r.Breakdown.Contract),
			Other:    money(r.Breakdown.Other),
		},
	}
}
