package mapping

import (
	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/models"
)

// ToModelContract converts a domain Contract to a model Contract
func ToModelContract(d domain.Contract) models.Contract {
	return models.Contract{
		ContractID:      d.ContractID,
		OwnerID:         d.OwnerID,
		VehicleName:     d.VehicleName,
		VehiclePlate:    d.VehiclePlate,
		VehicleType:     string(d.Type),
		Status:          string(d.Status),
		ContractStart:   d.ContractStart,
		ContractEnd:     d.ContractEnd,
		ContractValue:   d.ContractValue,
		CarInstallment:  d.CarInstallment,
		ProfitGoal:      d.ProfitGoal,
		CurrentOdometer: d.CurrentOdometer,
		AppBalance:      d.AppBalance,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainContract converts a model Contract to a domain Contract
func ToDomainContract(m models.Contract) domain.Contract {
	return domain.Contract{
		ContractID:      m.ContractID,
		OwnerID:         m.OwnerID,
		VehicleName:     m.VehicleName,
		VehiclePlate:    m.VehiclePlate,
		Type:            domain.VehicleType(m.VehicleType),
		Status:          domain.ContractStatus(m.Status),
		ContractStart:   m.ContractStart,
		ContractEnd:     m.ContractEnd,
		ContractValue:   m.ContractValue,
		CarInstallment:  m.CarInstallment,
		ProfitGoal:      m.ProfitGoal,
		CurrentOdometer: m.CurrentOdometer,
		AppBalance:      m.AppBalance,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainContractSlice converts a slice of model Contracts to domain Contracts
func ToDomainContractSlice(ms []models.Contract) []domain.Contract {
	ds := make([]domain.Contract, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainContract(m)
	}
	return ds
}
