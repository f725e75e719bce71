package services

import (
	"context"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/dto"
)

// ContractReaderSvc defines read operations for contract data
type ContractReaderSvc interface {
	// GetContractByID retrieves a specific contract of the owner.
	GetContractByID(ctx context.Context, ownerID, contractID string) (*domain.Contract, error)

	// GetActiveContract retrieves the owner's contract that is not finished.
	GetActiveContract(ctx context.Context, ownerID string) (*domain.Contract, error)

	// ListContracts retrieves every contract of the owner.
	ListContracts(ctx context.Context, ownerID string) ([]domain.Contract, error)
}

// ContractWriterSvc defines write operations for contract data
type ContractWriterSvc interface {
	CreateContract(ctx context.Context, ownerID string, req dto.CreateContractRequest) (*domain.Contract, error)
	UpdateContract(ctx context.Context, ownerID, contractID string, req dto.UpdateContractRequest) (*domain.Contract, error)

	// CloseContract finishes the contract at the closure instant.
	CloseContract(ctx context.Context, ownerID, contractID string, req dto.CloseContractRequest) (*domain.Contract, error)

	// DeleteContract removes a contract nothing references.
	DeleteContract(ctx context.Context, ownerID, contractID string) error
}

// ContractSvcFacade combines all contract-related service interfaces
type ContractSvcFacade interface {
	ContractReaderSvc
	ContractWriterSvc
}
