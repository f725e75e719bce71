package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journey is a row of the journeys table.
type Journey struct {
	JourneyID    string           `db:"journey_id"`
	OwnerID      string           `db:"owner_id"`
	ContractID   *string          `db:"contract_id"`
	ReferenceDay time.Time        `db:"reference_day"` // DATE column
	StartedAt    time.Time        `db:"started_at"`
	EndedAt      *time.Time       `db:"ended_at"`
	KmStart      int64            `db:"km_start"`
	KmEnd        *int64           `db:"km_end"`
	BalanceStart decimal.Decimal  `db:"balance_start"`
	BalanceEnd   *decimal.Decimal `db:"balance_end"`
	Closed       bool             `db:"closed"`
	AuditFields
}
