package accounting_test

import (
	"testing"
	"time"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func saoPaulo(t *testing.T) *calendar.Calendar {
	t.Helper()
	cal, err := calendar.New("America/Sao_Paulo")
	require.NoError(t, err)
	return cal
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

func timePtr(t time.Time) *time.Time {
	return &t
}

func strPtr(s string) *string {
	return &s
}

// rentedWeek is a 7 day rental starting 2024-03-01 12:00 local.
func rentedWeek(cal *calendar.Calendar) domain.Contract {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, cal.Location())
	return domain.Contract{
		ContractID:    "contract-rented",
		OwnerID:       "owner-1",
		Type:          domain.Rented,
		Status:        domain.ContractActive,
		ContractStart: start,
		ContractEnd:   start.AddDate(0, 0, 7),
		ContractValue: dec(3000),
		ProfitGoal:    dec(700),
		AppBalance:    dec(50),
	}
}

// ownedCar is an open ended ownership contract with a 1500 monthly cost.
func ownedCar(cal *calendar.Calendar) domain.Contract {
	return domain.Contract{
		ContractID:     "contract-owned",
		OwnerID:        "owner-1",
		Type:           domain.Owned,
		Status:         domain.ContractActive,
		ContractStart:  time.Date(2023, 1, 1, 0, 0, 0, 0, cal.Location()),
		ContractEnd:    time.Date(2099, 12, 31, 23, 59, 59, 0, cal.Location()),
		ContractValue:  dec(1200),
		CarInstallment: dec(300),
		ProfitGoal:     dec(3100),
	}
}
