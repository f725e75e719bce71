package domain

import "github.com/shopspring/decimal"

// ReconciliationOutcome describes what happened to a journey's automatic entry.
type ReconciliationOutcome string

const (
	OutcomeCreated  ReconciliationOutcome = "CREATED"
	OutcomeReplaced ReconciliationOutcome = "REPLACED"
	OutcomeRemoved  ReconciliationOutcome = "REMOVED"
	OutcomeNone     ReconciliationOutcome = "NONE"
)

// JourneyReconciliation is the planned result of reconciling a closed journey.
// Persisting it replaces any previous automatic entry of the journey.
type JourneyReconciliation struct {
	Journey            Journey               `json:"journey"`
	RechargesInJourney decimal.Decimal       `json:"rechargesInJourney"`
	Tax                decimal.Decimal       `json:"tax"`
	AutomaticEntry     *Entry                `json:"automaticEntry,omitempty"` // nil when tax <= 0
	Contract           Contract              `json:"contract"`                 // Odometer and balance snapshot to persist
	Outcome            ReconciliationOutcome `json:"outcome"`
}

// LegacyRelinkReport summarizes a legacy recharge relink run.
type LegacyRelinkReport struct {
	Linked             []Entry  `json:"linked"`
	AmbiguousEntryIDs  []string `json:"ambiguousEntryIDs"`
	ReconciledJourneys []string `json:"reconciledJourneys"`
	BackfilledEntries  int      `json:"backfilledEntries"`
	BackfilledJourneys int      `json:"backfilledJourneys"`
}
