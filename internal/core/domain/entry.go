package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a monetary event.
type EntryKind string

const (
	Revenue     EntryKind = "REVENUE"
	Fuel        EntryKind = "FUEL"
	AppTax      EntryKind = "APP_TAX"
	Expense     EntryKind = "EXPENSE"
	AppRecharge EntryKind = "APP_RECHARGE"
)

// IsValid reports whether k is a known entry kind.
func (k EntryKind) IsValid() bool {
	switch k {
	case Revenue, Fuel, AppTax, Expense, AppRecharge:
		return true
	}
	return false
}

// EntryOrigin tells who authored an entry.
type EntryOrigin string

const (
	OriginManual         EntryOrigin = "manual"
	OriginManualRecharge EntryOrigin = "manual_recharge"
	// OriginAutomatic entries are owned by journey reconciliation only.
	OriginAutomatic EntryOrigin = "automatic"
)

// Platform is the ride-hailing platform a revenue or fee belongs to.
type Platform string

const (
	PlatformUber       Platform = "Uber"
	Platform99         Platform = "99"
	PlatformInDrive    Platform = "inDrive"
	PlatformParticular Platform = "Particular"
	PlatformOther      Platform = "Outro"
)

// AutomaticTaxCategory is the category stamped on reconciliation entries.
const AutomaticTaxCategory = "Saldo Utilizado"

// Entry is a single monetary event recorded against a contract.
type Entry struct {
	EntryID       string           `json:"entryID"`
	OwnerID       string           `json:"ownerID"`
	ContractID    string           `json:"contractID"`
	JourneyID     *string          `json:"journeyID,omitempty"`
	Kind          EntryKind        `json:"kind"`
	Category      string           `json:"category"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount"` // Non-negative
	Date          time.Time        `json:"date"`
	Platform      Platform         `json:"platform,omitempty"`
	IsRecharge    bool             `json:"isRecharge"`
	Origin        EntryOrigin      `json:"origin"`
	KmRecorded    *int64           `json:"kmRecorded,omitempty"`
	PricePerLiter *decimal.Decimal `json:"pricePerLiter,omitempty"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	AuditFields
}

// IsAutomatic reports whether the entry was derived by reconciliation.
func (e Entry) IsAutomatic() bool {
	return e.Origin == OriginAutomatic
}

// IsWalletCredit reports whether the entry tops up the app wallet.
func (e Entry) IsWalletCredit() bool {
	return e.Kind == AppRecharge || (e.Kind == AppTax && e.IsRecharge)
}

// IsWalletDebit reports whether the entry consumes app wallet credit.
func (e Entry) IsWalletDebit() bool {
	return e.Kind == AppTax && !e.IsRecharge
}

// WalletDelta is the change the entry makes to its contract's app wallet
// balance. Automatic entries are derived from journey balances and move nothing.
func (e Entry) WalletDelta() decimal.Decimal {
	switch {
	case e.IsAutomatic():
		return decimal.Zero
	case e.IsWalletCredit():
		return e.Amount
	case e.IsWalletDebit():
		return e.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// LinkedTo reports whether the entry is explicitly linked to journeyID.
func (e Entry) LinkedTo(journeyID string) bool {
	return e.JourneyID != nil && *e.JourneyID == journeyID
}

// DiscountAmount returns the discount or zero when absent.
func (e Entry) DiscountAmount() decimal.Decimal {
	if e.Discount == nil {
		return decimal.Zero
	}
	return *e.Discount
}

// Liters returns the fuel volume when a positive unit price is known.
func (e Entry) Liters() (decimal.Decimal, bool) {
	if e.Kind != Fuel || e.PricePerLiter == nil || !e.PricePerLiter.IsPositive() {
		return decimal.Zero, false
	}
	return e.Amount.Div(*e.PricePerLiter), true
}
