package services

import (
	"context"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/dto"
)

// EntryReaderSvc defines read operations for entry data
type EntryReaderSvc interface {
	GetEntryByID(ctx context.Context, ownerID, entryID string) (*domain.Entry, error)
	ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// EntryWriterSvc defines write operations for manual entries. Automatic entries
// are rejected with apperrors.ErrForbidden.
type EntryWriterSvc interface {
	CreateEntry(ctx context.Context, ownerID string, req dto.CreateEntryRequest) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, ownerID, entryID string, req dto.UpdateEntryRequest) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, ownerID, entryID string) error
}

// EntrySvcFacade combines all entry-related service interfaces
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
}
