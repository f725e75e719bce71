package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract is a row of the contracts table.
type Contract struct {
	ContractID      string          `db:"contract_id"`
	OwnerID         string          `db:"owner_id"`
	VehicleName     string          `db:"vehicle_name"`
	VehiclePlate    string          `db:"vehicle_plate"`
	VehicleType     string          `db:"vehicle_type"`
	Status          string          `db:"status"`
	ContractStart   time.Time       `db:"contract_start"`
	ContractEnd     time.Time       `db:"contract_end"`
	ContractValue   decimal.Decimal `db:"contract_value"`
	CarInstallment  decimal.Decimal `db:"car_installment"`
	ProfitGoal      decimal.Decimal `db:"profit_goal"`
	CurrentOdometer int64           `db:"current_odometer"`
	AppBalance      decimal.Decimal `db:"app_balance"`
	AuditFields
}
