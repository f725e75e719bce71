package services_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
)

const ownerID = "owner-1"

func mustCalendar() *calendar.Calendar {
	cal, err := calendar.New(calendar.DefaultZone)
	if err != nil {
		panic(err)
	}
	return cal
}

// fixedNow is 2024-03-03 15:00 in Sao Paulo.
func fixedNow(cal *calendar.Calendar) time.Time {
	return time.Date(2024, 3, 3, 15, 0, 0, 0, cal.Location())
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func int64Ptr(v int64) *int64 {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// rentedContract runs from 2024-03-01 12:00 to 2024-03-08 12:00 local.
func rentedContract(cal *calendar.Calendar) domain.Contract {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, cal.Location())
	return domain.Contract{
		ContractID:      "contract-1",
		OwnerID:         ownerID,
		VehicleName:     "Onix",
		Type:            domain.Rented,
		Status:          domain.ContractActive,
		ContractStart:   start,
		ContractEnd:     start.AddDate(0, 0, 7),
		ContractValue:   dec(3000),
		ProfitGoal:      dec(700),
		CurrentOdometer: 1000,
		AppBalance:      dec(100),
	}
}

// closedJourney started with balance 100 and ended with balance 80.
func closedJourney(cal *calendar.Calendar) domain.Journey {
	start := time.Date(2024, 3, 3, 8, 0, 0, 0, cal.Location())
	end := start.Add(4 * time.Hour)
	return domain.Journey{
		JourneyID:    "journey-1",
		OwnerID:      ownerID,
		ContractID:   "contract-1",
		ReferenceDay: "2024-03-03",
		StartedAt:    start,
		EndedAt:      &end,
		KmStart:      1000,
		KmEnd:        int64Ptr(1120),
		BalanceStart: dec(100),
		BalanceEnd:   decPtr(80),
		Closed:       true,
	}
}
