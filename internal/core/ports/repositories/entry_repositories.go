package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giropositivo/giro_backend/internal/core/domain"
)

// EntryFilter narrows entry listings. Zero fields do not filter.
type EntryFilter struct {
	ContractID string
	JourneyID  string
	From       time.Time // Inclusive
	To         time.Time // Exclusive
}

// EntryReader defines read operations for entry data
type EntryReader interface {
	// FindEntryByID retrieves an entry of ownerID. Returns apperrors.ErrNotFound when missing.
	FindEntryByID(ctx context.Context, ownerID, entryID string) (*domain.Entry, error)

	// ListEntries retrieves a page of entries ordered by date and creation time, newest first.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, ownerID string, filter EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error)

	// FindEntriesInRange retrieves every entry of the contract dated in [from, to].
	FindEntriesInRange(ctx context.Context, ownerID, contractID string, from, to time.Time) ([]domain.Entry, error)

	// FindUnlinkedWalletCredits retrieves manual wallet credits without a journey link.
	FindUnlinkedWalletCredits(ctx context.Context, ownerID string) ([]domain.Entry, error)

	// FindEntriesWithoutContract retrieves legacy entries that never got a contract.
	FindEntriesWithoutContract(ctx context.Context, ownerID string) ([]domain.Entry, error)
}

// EntryWriter defines write operations for entry data
type EntryWriter interface {
	// SaveEntry inserts the entry and adds walletDelta to the app balance of its
	// contract in one transaction.
	SaveEntry(ctx context.Context, entry domain.Entry, walletDelta decimal.Decimal) error

	// UpdateEntry rewrites the entry and adds walletDelta to the app balance of its
	// contract in one transaction.
	UpdateEntry(ctx context.Context, entry domain.Entry, walletDelta decimal.Decimal) error

	// DeleteEntry removes the entry and adds walletDelta to the app balance of its
	// contract in one transaction.
	DeleteEntry(ctx context.Context, entry domain.Entry, walletDelta decimal.Decimal) error

	// UpdateEntryLinks rewrites the contract and journey links of entries in one transaction.
	UpdateEntryLinks(ctx context.Context, entries []domain.Entry) error
}

// EntryRepositoryFacade combines all entry-related repository interfaces
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}
