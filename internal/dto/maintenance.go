package dto

import "github.com/giropositivo/giro_backend/internal/core/domain"

// LegacyRelinkResponse summarizes a legacy link migration run.
type LegacyRelinkResponse struct {
	LinkedEntryIDs     []string `json:"linkedEntryIDs"`
	AmbiguousEntryIDs  []string `json:"ambiguousEntryIDs"`
	ReconciledJourneys []string `json:"reconciledJourneys"`
	BackfilledEntries  int      `json:"backfilledEntries"`
	BackfilledJourneys int      `json:"backfilledJourneys"`
}

// ToLegacyRelinkResponse converts the domain report to its DTO.
func ToLegacyRelinkResponse(r *domain.LegacyRelinkReport) LegacyRelinkResponse {
	linked := make([]string, len(r.Linked))
	for i, e := range r.Linked {
		linked[i] = e.EntryID
	}
	ambiguous := r.AmbiguousEntryIDs
	if ambiguous == nil {
		ambiguous = []string{}
	}
	reconciled := r.ReconciledJourneys
	if reconciled == nil {
		reconciled = []string{}
	}
	return LegacyRelinkResponse{
		LinkedEntryIDs:     linked,
		AmbiguousEntryIDs:  ambiguous,
		ReconciledJourneys: reconciled,
		BackfilledEntries:  r.BackfilledEntries,
		BackfilledJourneys: r.BackfilledJourneys,
	}
}
