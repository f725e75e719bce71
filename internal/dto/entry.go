package dto

import (
	"time"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DiscountType tells how CreateEntryRequest.Discount is expressed.
type DiscountType string

const (
	DiscountMoney   DiscountType = "MONEY"
	DiscountPercent DiscountType = "PERCENT"
)

// CreateEntryRequest defines the data needed to record a manual entry.
type CreateEntryRequest struct {
	ContractID    *string          `json:"contractID"` // Optional, defaults to the active contract
	JourneyID     *string          `json:"journeyID"`
	Kind          domain.EntryKind `json:"kind" binding:"required,oneof=REVENUE FUEL APP_TAX EXPENSE APP_RECHARGE"`
	Category      string           `json:"category"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount" binding:"decimal_gte0"`
	Date          time.Time        `json:"date" binding:"required"`
	Platform      domain.Platform  `json:"platform" binding:"omitempty,oneof=Uber 99 inDrive Particular Outro"`
	IsRecharge    bool             `json:"isRecharge"`
	KmRecorded    *int64           `json:"kmRecorded" binding:"omitempty,min=0"`
	PricePerLiter *decimal.Decimal `json:"pricePerLiter" binding:"omitempty,decimal_gte0"`
	Discount      *decimal.Decimal `json:"discount" binding:"omitempty,decimal_gte0"`
	DiscountType  DiscountType     `json:"discountType" binding:"omitempty,oneof=MONEY PERCENT"`
}

// UpdateEntryRequest defines the editable fields of a manual entry.
type UpdateEntryRequest struct {
	Kind          *domain.EntryKind `json:"kind" binding:"omitempty,oneof=REVENUE FUEL APP_TAX EXPENSE APP_RECHARGE"`
	Category      *string           `json:"category"`
	Description   *string           `json:"description"`
	Amount        *decimal.Decimal  `json:"amount" binding:"omitempty,decimal_gte0"`
	Date          *time.Time        `json:"date"`
	Platform      *domain.Platform  `json:"platform" binding:"omitempty,oneof=Uber 99 inDrive Particular Outro"`
	IsRecharge    *bool             `json:"isRecharge"`
	KmRecorded    *int64            `json:"kmRecorded" binding:"omitempty,min=0"`
	PricePerLiter *decimal.Decimal  `json:"pricePerLiter" binding:"omitempty,decimal_gte0"`
	Discount      *decimal.Decimal  `json:"discount" binding:"omitempty,decimal_gte0"`
	DiscountType  DiscountType      `json:"discountType" binding:"omitempty,oneof=MONEY PERCENT"`
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	ContractID string `form:"contractID"`
	JourneyID  string `form:"journeyID"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Limit      int    `form:"limit,default=20" binding:"min=0,max=100"`
	NextToken  string `form:"nextToken"`
}

// EntryResponse defines the data returned for an entry.
type EntryResponse struct {
	EntryID       string             `json:"entryID"`
	ContractID    string             `json:"contractID"`
	JourneyID     *string            `json:"journeyID,omitempty"`
	Kind          domain.EntryKind   `json:"kind"`
	Category      string             `json:"category"`
	Description   string             `json:"description"`
	Amount        decimal.Decimal    `json:"amount"`
	Date          time.Time          `json:"date"`
	Platform      domain.Platform    `json:"platform,omitempty"`
	IsRecharge    bool               `json:"isRecharge"`
	Origin        domain.EntryOrigin `json:"origin"`
	KmRecorded    *int64             `json:"kmRecorded,omitempty"`
	PricePerLiter *decimal.Decimal   `json:"pricePerLiter,omitempty"`
	Discount      *decimal.Decimal   `json:"discount,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.Entry to EntryResponse DTO.
func ToEntryResponse(e *domain.Entry) EntryResponse {
	return EntryResponse{
		EntryID:       e.EntryID,
		ContractID:    e.ContractID,
		JourneyID:     e.JourneyID,
		Kind:          e.Kind,
		Category:      e.Category,
		Description:   e.Description,
		Amount:        money(e.Amount),
		Date:          e.Date,
		Platform:      e.Platform,
		IsRecharge:    e.IsRecharge,
		Origin:        e.Origin,
		KmRecorded:    e.KmRecorded,
		PricePerLiter: e.PricePerLiter,
		Discount:      moneyPtr(e.Discount),
		CreatedAt:     e.CreatedAt,
		LastUpdatedAt: e.LastUpdatedAt,
	}
}

// ToEntryResponses converts a slice of domain.Entry to EntryResponse DTOs.
func ToEntryResponses(entries []domain.Entry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i := range entries {
		res[i] = ToEntryResponse(&entries[i])
	}
	return res
}
