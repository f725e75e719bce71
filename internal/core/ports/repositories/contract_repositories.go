package repositories

import (
	"context"

	"github.com/giropositivo/giro_backend/internal/core/domain"
)

// ContractReader defines read operations for contract data
type ContractReader interface {
	// FindContractByID retrieves a contract of ownerID. Returns apperrors.ErrNotFound when missing.
	FindContractByID(ctx context.Context, ownerID, contractID string) (*domain.Contract, error)

	// ListContractsByOwner retrieves every contract of ownerID, newest start first.
	ListContractsByOwner(ctx context.Context, ownerID string) ([]domain.Contract, error)

	// CountContractReferences counts entries and journeys pointing at the contract.
	CountContractReferences(ctx context.Context, ownerID, contractID string) (int64, error)
}

// ContractWriter defines write operations for contract data
type ContractWriter interface {
	SaveContract(ctx context.Context, contract domain.Contract) error
	UpdateContract(ctx context.Context, contract domain.Contract) error
	DeleteContract(ctx context.Context, ownerID, contractID string) error
}

// ContractRepositoryFacade combines all contract-related repository interfaces
type ContractRepositoryFacade interface {
	ContractReader
	ContractWriter
}
