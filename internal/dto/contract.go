package dto

import (
	"time"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateContractRequest defines the data needed to register a vehicle contract.
// RENTED contracts need both instants; OWNED contracts default to an open term starting now.
type CreateContractRequest struct {
	VehicleName     string             `json:"vehicleName" binding:"required"`
	VehiclePlate    string             `json:"vehiclePlate"`
	Type            domain.VehicleType `json:"type" binding:"required,oneof=RENTED OWNED"`
	ContractStart   *time.Time         `json:"contractStart"`
	ContractEnd     *time.Time         `json:"contractEnd"`
	ContractValue   decimal.Decimal    `json:"contractValue" binding:"decimal_gte0"`
	CarInstallment  decimal.Decimal    `json:"carInstallment" binding:"decimal_gte0"`
	ProfitGoal      decimal.Decimal    `json:"profitGoal" binding:"decimal_gte0"`
	CurrentOdometer int64              `json:"currentOdometer" binding:"min=0"`
	AppBalance      decimal.Decimal    `json:"appBalance"`
}

// UpdateContractRequest defines the editable fields of a contract.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateContractRequest struct {
	VehicleName     *string          `json:"vehicleName"`
	VehiclePlate    *string          `json:"vehiclePlate"`
	ContractValue   *decimal.Decimal `json:"contractValue" binding:"omitempty,decimal_gte0"`
	CarInstallment  *decimal.Decimal `json:"carInstallment" binding:"omitempty,decimal_gte0"`
	ProfitGoal      *decimal.Decimal `json:"profitGoal" binding:"omitempty,decimal_gte0"`
	CurrentOdometer *int64           `json:"currentOdometer" binding:"omitempty,min=0"`
	AppBalance      *decimal.Decimal `json:"appBalance"`
}

// CloseContractRequest optionally backdates the closure instant.
type CloseContractRequest struct {
	ClosedAt *time.Time `json:"closedAt"`
}

// ContractResponse defines the data returned for a contract.
type ContractResponse struct {
	ContractID      string                `json:"contractID"`
	VehicleName     string                `json:"vehicleName"`
	VehiclePlate    string                `json:"vehiclePlate"`
	Type            domain.VehicleType    `json:"type"`
	Status          domain.ContractStatus `json:"status"` // Effective status at response time
	ContractStart   time.Time             `json:"contractStart"`
	ContractEnd     time.Time             `json:"contractEnd"`
	ContractValue   decimal.Decimal       `json:"contractValue"`
	CarInstallment  decimal.Decimal       `json:"carInstallment"`
	ProfitGoal      decimal.Decimal       `json:"profitGoal"`
	CurrentOdometer int64                 `json:"currentOdometer"`
	AppBalance      decimal.Decimal       `json:"appBalance"`
	CreatedAt       time.Time             `json:"createdAt"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
}

// ToContractResponse converts a domain.Contract to ContractResponse DTO.
func ToContractResponse(c *domain.Contract, now time.Time) ContractResponse {
	return ContractResponse{
		ContractID:      c.ContractID,
		VehicleName:     c.VehicleName,
		VehiclePlate:    c.VehiclePlate,
		Type:            c.Type,
		Status:          c.EffectiveStatus(now),
		ContractStart:   c.ContractStart,
		ContractEnd:     c.ContractEnd,
		ContractValue:   money(c.ContractValue),
		CarInstallment:  money(c.CarInstallment),
		ProfitGoal:      money(c.ProfitGoal),
		CurrentOdometer: c.CurrentOdometer,
		AppBalance:      money(c.AppBalance),
		CreatedAt:       c.CreatedAt,
		LastUpdatedAt:   c.LastUpdatedAt,
	}
}

// ToListContractResponse converts a slice of domain.Contract to ContractResponse DTOs.
func ToListContractResponse(contracts []domain.Contract, now time.Time) []ContractResponse {
	res := make([]ContractResponse, len(contracts))
	for i := range contracts {
		res[i] = ToContractResponse(&contracts[i], now)
	}
	return res
}
