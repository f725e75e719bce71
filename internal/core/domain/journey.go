package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journey is one work shift bounded by odometer and wallet balance snapshots.
type Journey struct {
	JourneyID    string           `json:"journeyID"`
	OwnerID      string           `json:"ownerID"`
	ContractID   string           `json:"contractID"`
	ReferenceDay string           `json:"referenceDay"` // Civil date, YYYY-MM-DD
	StartedAt    time.Time        `json:"startedAt"`
	EndedAt      *time.Time       `json:"endedAt,omitempty"`
	KmStart      int64            `json:"kmStart"`
	KmEnd        *int64           `json:"kmEnd,omitempty"`
	BalanceStart decimal.Decimal  `json:"balanceStart"`
	BalanceEnd   *decimal.Decimal `json:"balanceEnd,omitempty"`
	Closed       bool             `json:"closed"`
	AuditFields
}

// Distance is the driven distance of a closed journey, 0 while open.
func (j Journey) Distance() int64 {
	if !j.Closed || j.KmEnd == nil {
		return 0
	}
	return *j.KmEnd - j.KmStart
}

// DurationMinutes is the whole minutes worked in a closed journey, 0 while open.
func (j Journey) DurationMinutes() int64 {
	if !j.Closed || j.EndedAt == nil {
		return 0
	}
	return int64(j.EndedAt.Sub(j.StartedAt) / time.Minute)
}

// BookingInstant is the instant used to date entries derived from the journey.
func (j Journey) BookingInstant() time.Time {
	if j.EndedAt != nil {
		return *j.EndedAt
	}
	return j.StartedAt
}
