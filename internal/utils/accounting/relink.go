package accounting

import (
	"sort"
	"time"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
)

// OpenEndedContractEnd is the end instant given to contracts without a term.
func OpenEndedContractEnd(cal *calendar.Calendar) time.Time {
	return time.Date(2099, time.December, 31, 23, 59, 59, 0, cal.Location())
}

// RelinkPlan lists the legacy wallet credits that can be linked to a journey.
type RelinkPlan struct {
	Linked            []domain.Entry // Copies with JourneyID set
	AmbiguousEntryIDs []string
	Journeys          []string // Journeys whose reconciliation must be re-run
}

// PlanLegacyRelink matches unlinked wallet credits to the closed journey of
// the same contract whose [start, end] window contains the entry instant.
// Entries inside two or more windows are reported as ambiguous and left alone.
func PlanLegacyRelink(entries []domain.Entry, journeys []domain.Journey) RelinkPlan {
	var plan RelinkPlan
	touched := make(map[string]struct{})

	for _, e := range entries {
		if e.JourneyID != nil || e.IsAutomatic() || !e.IsWalletCredit() {
			continue
		}

		var match *domain.Journey
		hits := 0
		for i := range journeys {
			j := journeys[i]
			if !j.Closed || j.EndedAt == nil || j.ContractID != e.ContractID {
				continue
			}
			if e.Date.Before(j.StartedAt) || e.Date.After(*j.EndedAt) {
				continue
			}
			hits++
			match = &journeys[i]
		}

		switch {
		case hits == 1:
			id := match.JourneyID
			linked := e
			linked.JourneyID = &id
			plan.Linked = append(plan.Linked, linked)
			touched[id] = struct{}{}
		case hits > 1:
			plan.AmbiguousEntryIDs = append(plan.AmbiguousEntryIDs, e.EntryID)
		}
	}

	for id := range touched {
		plan.Journeys = append(plan.Journeys, id)
	}
	sort.Strings(plan.Journeys)
	return plan
}

// BackfillPlan lists records that received a contract id.
type BackfillPlan struct {
	Entries  []domain.Entry
	Journeys []domain.Journey
}

// PlanContractBackfill assigns records without a contract to the earliest
// contract whose window contains them. A contract that is not finished is
// treated as open ended.
func PlanContractBackfill(cal *calendar.Calendar, contracts []domain.Contract, entries []domain.Entry, journeys []domain.Journey) BackfillPlan {
	ordered := make([]domain.Contract, len(contracts))
	copy(ordered, contracts)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].ContractStart.Before(ordered[b].ContractStart)
	})

	openEnd := OpenEndedContractEnd(cal)
	owner := func(t time.Time) (string, bool) {
		for _, c := range ordered {
			end := c.ContractEnd
			if c.Status != domain.ContractFinished {
				end = openEnd
			}
			if !t.Before(c.ContractStart) && !t.After(end) {
				return c.ContractID, true
			}
		}
		return "", false
	}

	var plan BackfillPlan
	for _, e := range entries {
		if e.ContractID != "" {
			continue
		}
		if id, ok := owner(e.Date); ok {
			e.ContractID = id
			plan.Entries = append(plan.Entries, e)
		}
	}
	for _, j := range journeys {
		if j.ContractID != "" {
			continue
		}
		if id, ok := owner(j.StartedAt); ok {
			j.ContractID = id
			plan.Journeys = append(plan.Journeys, j)
		}
	}
	return plan
}
