package accounting

import (
	"fmt"
	"time"

	"github.com/giropositivo/giro_backend/internal/apperrors"
	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// automaticEntryNamespace scopes the name based UUIDs of automatic entries.
var automaticEntryNamespace = uuid.MustParse("6f1c3f2e-9b7a-5d4e-8c21-3a0b9e7d4f60")

// AutomaticEntryID returns the id of the single automatic entry a journey may own.
func AutomaticEntryID(journeyID string) string {
	return uuid.NewSHA1(automaticEntryNamespace, []byte(journeyID)).String()
}

// ValidateClosedJourney checks that j can be reconciled against contract.
func ValidateClosedJourney(j domain.Journey, contract *domain.Contract) error {
	switch {
	case contract == nil:
		return apperrors.NewInvalidInputError("contract", "journey has no owning contract")
	case contract.ContractID != j.ContractID:
		return apperrors.NewInvalidInputError("contract", fmt.Sprintf("journey belongs to contract %s, got %s", j.ContractID, contract.ContractID))
	case !j.Closed:
		return apperrors.NewInvalidInputError("closed", "journey is still open")
	case j.EndedAt == nil:
		return apperrors.NewInvalidInputError("endedAt", "missing end instant")
	case j.EndedAt.Before(j.StartedAt):
		return apperrors.NewInvalidInputError("endedAt", "end is before start")
	case j.BalanceEnd == nil:
		return apperrors.NewInvalidInputError("balanceEnd", "missing end balance")
	case j.KmEnd != nil && *j.KmEnd < j.KmStart:
		return apperrors.NewInvalidInputError("kmEnd", "end odometer is below start odometer")
	}
	return nil
}

// RechargesInJourney sums the wallet credits of contractID explicitly linked
// to journeyID.
func RechargesInJourney(journeyID, contractID string, entries []domain.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.ContractID != contractID || !e.LinkedTo(journeyID) || e.IsAutomatic() {
			continue
		}
		if e.IsWalletCredit() {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// PlanReconciliation derives the automatic entry and contract snapshot of a
// closed journey. entries must contain every entry linked to the journey;
// unrelated entries are ignored. Nothing is written: the caller persists the
// plan atomically, replacing any previous automatic entry of the journey.
func PlanReconciliation(j domain.Journey, contract *domain.Contract, entries []domain.Entry, now time.Time) (domain.JourneyReconciliation, error) {
	if err := ValidateClosedJourney(j, contract); err != nil {
		return domain.JourneyReconciliation{}, err
	}

	autoID := AutomaticEntryID(j.JourneyID)
	var prior *domain.Entry
	for i := range entries {
		e := entries[i]
		if e.IsAutomatic() && (e.EntryID == autoID || e.LinkedTo(j.JourneyID)) {
			prior = &e
			break
		}
	}

	recharges := RechargesInJourney(j.JourneyID, contract.ContractID, entries)
	tax := j.BalanceStart.Add(recharges).Sub(*j.BalanceEnd)

	plan := domain.JourneyReconciliation{
		Journey:            j,
		RechargesInJourney: recharges,
		Tax:                tax,
		Contract:           snapshotContract(*contract, j, now),
	}

	if !tax.IsPositive() {
		plan.Outcome = domain.OutcomeNone
		if prior != nil {
			plan.Outcome = domain.OutcomeRemoved
		}
		return plan, nil
	}

	journeyID := j.JourneyID
	audit := domain.NewAuditFields(j.OwnerID, now)
	plan.Outcome = domain.OutcomeCreated
	if prior != nil {
		plan.Outcome = domain.OutcomeReplaced
		audit.CreatedAt = prior.CreatedAt
		audit.CreatedBy = prior.CreatedBy
	}
	plan.AutomaticEntry = &domain.Entry{
		EntryID:     autoID,
		OwnerID:     j.OwnerID,
		ContractID:  contract.ContractID,
		JourneyID:   &journeyID,
		Kind:        domain.AppTax,
		Category:    domain.AutomaticTaxCategory,
		Description: fmt.Sprintf("Saldo consumido na jornada de %s", j.ReferenceDay),
		Amount:      tax,
		Date:        j.BookingInstant(),
		IsRecharge:  false,
		Origin:      domain.OriginAutomatic,
		AuditFields: audit,
	}
	return plan, nil
}

func snapshotContract(c domain.Contract, j domain.Journey, now time.Time) domain.Contract {
	if j.KmEnd != nil {
		c.CurrentOdometer = *j.KmEnd
	}
	c.AppBalance = *j.BalanceEnd
	c.Touch(j.OwnerID, now)
	return c
}
