package dto

import (
	"time"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
	"github.com/shopspring/decimal"
)

// StartJourneyRequest opens a shift. Odometer and balance default to the contract snapshot.
type StartJourneyRequest struct {
	ContractID   *string    `json:"contractID"`
	StartedAt    *time.Time `json:"startedAt"`
	ReferenceDay *string    `json:"referenceDay" binding:"omitempty,datetime=2006-01-02"`
	KmStart      *int64     `json:"kmStart" binding:"omitempty,min=0"`
}

// CloseJourneyRequest closes an open shift and triggers reconciliation.
type CloseJourneyRequest struct {
	EndedAt    *time.Time       `json:"endedAt"`
	KmEnd      *int64           `json:"kmEnd" binding:"required,min=0"`
	BalanceEnd *decimal.Decimal `json:"balanceEnd" binding:"required"`
}

// UpdateJourneyRequest edits a closed journey. Reconciliation runs again.
type UpdateJourneyRequest struct {
	ReferenceDay *string          `json:"referenceDay" binding:"omitempty,datetime=2006-01-02"`
	StartedAt    *time.Time       `json:"startedAt"`
	EndedAt      *time.Time       `json:"endedAt"`
	KmStart      *int64           `json:"kmStart" binding:"omitempty,min=0"`
	KmEnd        *int64           `json:"kmEnd" binding:"omitempty,min=0"`
	BalanceStart *decimal.Decimal `json:"balanceStart"`
	BalanceEnd   *decimal.Decimal `json:"balanceEnd"`
}

// ListJourneysParams defines query parameters for listing journeys.
type ListJourneysParams struct {
	ContractID string `form:"contractID"`
	Limit      int    `form:"limit,default=20" binding:"min=0,max=100"`
	NextToken  string `form:"nextToken"`
}

// JourneyResponse defines the data returned for a journey.
type JourneyResponse struct {
	JourneyID       string           `json:"journeyID"`
	ContractID      string           `json:"contractID"`
	ReferenceDay    string           `json:"referenceDay"`
	StartedAt       time.Time        `json:"startedAt"`
	EndedAt         *time.Time       `json:"endedAt,omitempty"`
	KmStart         int64            `json:"kmStart"`
	KmEnd           *int64           `json:"kmEnd,omitempty"`
	BalanceStart    decimal.Decimal  `json:"balanceStart"`
	BalanceEnd      *decimal.Decimal `json:"balanceEnd,omitempty"`
	Closed          bool             `json:"closed"`
	Distance        int64            `json:"distance"`
	DurationMinutes int64            `json:"durationMinutes"`
	Duration        string           `json:"duration"`
}

// ListJourneysResponse wraps a page of journeys.
type ListJourneysResponse struct {
	Journeys  []JourneyResponse `json:"journeys"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ReconciliationResponse reports the outcome of closing or re-reconciling a journey.
type ReconciliationResponse struct {
	Journey            JourneyResponse              `json:"journey"`
	RechargesInJourney decimal.Decimal              `json:"rechargesInJourney"`
	Tax                decimal.Decimal              `json:"tax"`
	AutomaticEntry     *EntryResponse               `json:"automaticEntry,omitempty"`
	Outcome            domain.ReconciliationOutcome `json:"outcome"`
	AppBalance         decimal.Decimal              `json:"appBalance"`
	CurrentOdometer    int64                        `json:"currentOdometer"`
}

// ToJourneyResponse converts a domain.Journey to JourneyResponse DTO.
func ToJourneyResponse(j *domain.Journey) JourneyResponse {
	return JourneyResponse{
		JourneyID:       j.JourneyID,
		ContractID:      j.ContractID,
		ReferenceDay:    j.ReferenceDay,
		StartedAt:       j.StartedAt,
		EndedAt:         j.EndedAt,
		KmStart:         j.KmStart,
		KmEnd:           j.KmEnd,
		BalanceStart:    money(j.BalanceStart),
		BalanceEnd:      moneyPtr(j.BalanceEnd),
		Closed:          j.Closed,
		Distance:        j.Distance(),
		DurationMinutes: j.DurationMinutes(),
		Duration:        calendar.FormatDuration(j.DurationMinutes()),
	}
}

// ToJourneyResponses converts a slice of domain.Journey to JourneyResponse DTOs.
func ToJourneyResponses(journeys []domain.Journey) []JourneyResponse {
	res := make([]JourneyResponse, len(journeys))
	for i := range journeys {
		res[i] = ToJourneyResponse(&journeys[i])
	}
	return res
}

// ToReconciliationResponse converts a reconciliation result to its DTO.
func ToReconciliationResponse(r *domain.JourneyReconciliation) ReconciliationResponse {
	res := ReconciliationResponse{
		Journey:            ToJourneyResponse(&r.Journey),
		RechargesInJourney: money(r.RechargesInJourney),
		Tax:                money(r.Tax),
		Outcome:            r.Outcome,
		AppBalance:         money(r.Contract.AppBalance),
		CurrentOdometer:    r.Contract.CurrentOdometer,
	}
	if r.AutomaticEntry != nil {
		e := ToEntryResponse(r.AutomaticEntry)
		res.AutomaticEntry = &e
	}
	return res
}
