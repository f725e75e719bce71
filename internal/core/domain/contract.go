package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleType is the ownership mode of the vehicle under contract.
type VehicleType string

const (
	// Rented contracts have a fixed term; cost accrues linearly by minute.
	Rented VehicleType = "RENTED"
	// Owned contracts are open ended; cost accrues per calendar day of each month.
	Owned VehicleType = "OWNED"
)

// IsValid reports whether t is a known vehicle type.
func (t VehicleType) IsValid() bool {
	return t == Rented || t == Owned
}

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractFuture   ContractStatus = "FUTURE"
	ContractActive   ContractStatus = "ACTIVE"
	ContractFinished ContractStatus = "FINISHED"
)

// Contract is the vehicle record holding cost terms and the validity window.
type Contract struct {
	ContractID      string          `json:"contractID"`
	OwnerID         string          `json:"ownerID"`
	VehicleName     string          `json:"vehicleName"`
	VehiclePlate    string          `json:"vehiclePlate"`
	Type            VehicleType     `json:"type"`
	Status          ContractStatus  `json:"status"`
	ContractStart   time.Time       `json:"contractStart"`
	ContractEnd     time.Time       `json:"contractEnd"`
	ContractValue   decimal.Decimal `json:"contractValue"`  // Rent for the whole term (RENTED) or monthly maintenance reserve (OWNED)
	CarInstallment  decimal.Decimal `json:"carInstallment"` // Monthly financing installment, OWNED only
	ProfitGoal      decimal.Decimal `json:"profitGoal"`     // Per term (RENTED) or per month (OWNED)
	CurrentOdometer int64           `json:"currentOdometer"`
	AppBalance      decimal.Decimal `json:"appBalance"`
	AuditFields
}

// MonthlyCost is the monthly amount accrued by an OWNED contract.
func (c Contract) MonthlyCost() decimal.Decimal {
	if c.Type != Owned {
		return c.ContractValue
	}
	return c.ContractValue.Add(c.CarInstallment)
}

// EffectiveStatus derives the lifecycle status at now. A stored FINISHED
// status is final; otherwise the validity window decides.
func (c Contract) EffectiveStatus(now time.Time) ContractStatus {
	if c.Status == ContractFinished {
		return ContractFinished
	}
	if c.ContractStart.IsZero() || c.ContractEnd.IsZero() {
		return ContractActive
	}
	if now.Before(c.ContractStart) {
		return ContractFuture
	}
	if now.After(c.ContractEnd) {
		return ContractFinished
	}
	return ContractActive
}

// IsOpen reports whether the contract still accepts journeys and entries.
func (c Contract) IsOpen(now time.Time) bool {
	return c.EffectiveStatus(now) != ContractFinished
}
