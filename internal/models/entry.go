package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a row of the entries table. ContractID is nullable for records
// created before contracts existed.
type Entry struct {
	EntryID       string           `db:"entry_id"`
	OwnerID       string           `db:"owner_id"`
	ContractID    *string          `db:"contract_id"`
	JourneyID     *string          `db:"journey_id"`
	Kind          string           `db:"kind"`
	Category      string           `db:"category"`
	Description   string           `db:"description"`
	Amount        decimal.Decimal  `db:"amount"`
	EntryDate     time.Time        `db:"entry_date"`
	Platform      string           `db:"platform"`
	IsRecharge    bool             `db:"is_recharge"`
	Origin        string           `db:"origin"`
	KmRecorded    *int64           `db:"km_recorded"`
	PricePerLiter *decimal.Decimal `db:"price_per_liter"`
	Discount      *decimal.Decimal `db:"discount"`
	AuditFields
}
