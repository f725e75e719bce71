package mapping

import (
	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/models"
)

// ToModelEntry converts a domain Entry to a model Entry
func ToModelEntry(d domain.Entry) models.Entry {
	return models.Entry{
		EntryID:       d.EntryID,
		OwnerID:       d.OwnerID,
		ContractID:    nullableID(d.ContractID),
		JourneyID:     d.JourneyID,
		Kind:          string(d.Kind),
		Category:      d.Category,
		Description:   d.Description,
		Amount:        d.Amount,
		EntryDate:     d.Date,
		Platform:      string(d.Platform),
		IsRecharge:    d.IsRecharge,
		Origin:        string(d.Origin),
		KmRecorded:    d.KmRecorded,
		PricePerLiter: d.PricePerLiter,
		Discount:      d.Discount,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model Entry to a domain Entry
func ToDomainEntry(m models.Entry) domain.Entry {
	return domain.Entry{
		EntryID:       m.EntryID,
		OwnerID:       m.OwnerID,
		ContractID:    derefID(m.ContractID),
		JourneyID:     m.JourneyID,
		Kind:          domain.EntryKind(m.Kind),
		Category:      m.Category,
		Description:   m.Description,
		Amount:        m.Amount,
		Date:          m.EntryDate,
		Platform:      domain.Platform(m.Platform),
		IsRecharge:    m.IsRecharge,
		Origin:        domain.EntryOrigin(m.Origin),
		KmRecorded:    m.KmRecorded,
		PricePerLiter: m.PricePerLiter,
		Discount:      m.Discount,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEntrySlice converts a slice of model Entries to domain Entries
func ToDomainEntrySlice(ms []models.Entry) []domain.Entry {
	ds := make([]domain.Entry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEntry(m)
	}
	return ds
}
