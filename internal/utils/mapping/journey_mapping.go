package mapping

import (
	"time"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/models"
)

const referenceDayLayout = "2006-01-02"

// ToModelJourney converts a domain Journey to a model Journey. An unparsable
// reference day maps to the zero date.
func ToModelJourney(d domain.Journey) models.Journey {
	day, _ := time.Parse(referenceDayLayout, d.ReferenceDay)
	return models.Journey{
		JourneyID:    d.JourneyID,
		OwnerID:      d.OwnerID,
		ContractID:   nullableID(d.ContractID),
		ReferenceDay: day,
		StartedAt:    d.StartedAt,
		EndedAt:      d.EndedAt,
		KmStart:      d.KmStart,
		KmEnd:        d.KmEnd,
		BalanceStart: d.BalanceStart,
		BalanceEnd:   d.BalanceEnd,
		Closed:       d.Closed,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJourney converts a model Journey to a domain Journey. DATE columns
// come back as UTC midnight, so the civil day is read without conversion.
func ToDomainJourney(m models.Journey) domain.Journey {
	return domain.Journey{
		JourneyID:    m.JourneyID,
		OwnerID:      m.OwnerID,
		ContractID:   derefID(m.ContractID),
		ReferenceDay: m.ReferenceDay.Format(referenceDayLayout),
		StartedAt:    m.StartedAt,
		EndedAt:      m.EndedAt,
		KmStart:      m.KmStart,
		KmEnd:        m.KmEnd,
		BalanceStart: m.BalanceStart,
		BalanceEnd:   m.BalanceEnd,
		Closed:       m.Closed,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJourneySlice converts a slice of model Journeys to domain Journeys
func ToDomainJourneySlice(ms []models.Journey) []domain.Journey {
	ds := make([]domain.Journey, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJourney(m)
	}
	return ds
}
