package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/giropositivo/giro_backend/internal/apperrors"
	"github.com/giropositivo/giro_backend/internal/core/domain"
	portsrepo "github.com/giropositivo/giro_backend/internal/core/ports/repositories"
	"github.com/giropositivo/giro_backend/internal/models"
	"github.com/giropositivo/giro_backend/internal/utils/mapping"
)

const contractColumns = `
	contract_id, owner_id, vehicle_name, vehicle_plate, vehicle_type, status,
	contract_start, contract_end, contract_value, car_installment, profit_goal,
	current_odometer, app_balance,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxContractRepository stores contracts in Postgres.
type PgxContractRepository struct {
	BaseRepository
}

func newPgxContractRepository(pool *pgxpool.Pool) portsrepo.ContractRepositoryFacade {
	return &PgxContractRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ContractRepositoryFacade = (*PgxContractRepository)(nil)

func scanContract(row pgx.Row) (models.Contract, error) {
	var m models.Contract
	err := row.Scan(
		&m.ContractID,
		&m.OwnerID,
		&m.VehicleName,
		&m.VehiclePlate,
		&m.VehicleType,
		&m.Status,
		&m.ContractStart,
		&m.ContractEnd,
		&m.ContractValue,
		&m.CarInstallment,
		&m.ProfitGoal,
		&m.CurrentOdometer,
		&m.AppBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveContract inserts a new contract.
func (r *PgxContractRepository) SaveContract(ctx context.Context, contract domain.Contract) error {
	m := mapping.ToModelContract(contract)
	query := `INSERT INTO contracts (` + contractColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`

	_, err := r.Pool.Exec(ctx, query,
		m.ContractID, m.OwnerID, m.VehicleName, m.VehiclePlate, m.VehicleType, m.Status,
		m.ContractStart, m.ContractEnd, m.ContractValue, m.CarInstallment, m.ProfitGoal,
		m.CurrentOdometer, m.AppBalance,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: contract with ID %s already exists", apperrors.ErrDuplicate, m.ContractID)
		}
		return apperrors.NewAppError(500, "failed to insert contract "+m.ContractID, err)
	}
	return nil
}

// FindContractByID retrieves a contract of the owner.
func (r *PgxContractRepository) FindContractByID(ctx context.Context, ownerID, contractID string) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE owner_id = $1 AND contract_id = $2;`

	m, err := scanContract(r.Pool.QueryRow(ctx, query, ownerID, contractID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, contractID)
		}
		return nil, apperrors.NewAppError(500, "failed to find contract "+contractID, err)
	}
	c := mapping.ToDomainContract(m)
	return &c, nil
}

// ListContractsByOwner retrieves every contract of the owner, newest start first.
func (r *PgxContractRepository) ListContractsByOwner(ctx context.Context, ownerID string) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE owner_id = $1 ORDER BY contract_start DESC, created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list contracts", err)
	}
	defer rows.Close()

	var ms []models.Contract
	for rows.Next() {
		m, err := scanContract(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan contract row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating contract rows", err)
	}
	return mapping.ToDomainContractSlice(ms), nil
}

// CountContractReferences counts the entries and journeys pointing at the contract.
func (r *PgxContractRepository) CountContractReferences(ctx context.Context, ownerID, contractID string) (int64, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM entries WHERE owner_id = $1 AND contract_id = $2) +
			(SELECT COUNT(*) FROM journeys WHERE owner_id = $1 AND contract_id = $2);`

	var count int64
	if err := r.Pool.QueryRow(ctx, query, ownerID, contractID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count references of contract "+contractID, err)
	}
	return count, nil
}

// UpdateContract rewrites the mutable columns of a contract.
func (r *PgxContractRepository) UpdateContract(ctx context.Context, contract domain.Contract) error {
	return updateContract(ctx, r.Pool, contract)
}

func updateContract(ctx context.Context, q querier, contract domain.Contract) error {
	m := mapping.ToModelContract(contract)
	query := `
		UPDATE contracts SET
			vehicle_name = $3, vehicle_plate = $4, status = $5,
			contract_start = $6, contract_end = $7, contract_value = $8,
			car_installment = $9, profit_goal = $10, current_odometer = $11,
			app_balance = $12, last_updated_at = $13, last_updated_by = $14
		WHERE owner_id = $1 AND contract_id = $2;`

	tag, err := q.Exec(ctx, query,
		m.OwnerID, m.ContractID, m.VehicleName, m.VehiclePlate, m.Status,
		m.ContractStart, m.ContractEnd, m.ContractValue,
		m.CarInstallment, m.ProfitGoal, m.CurrentOdometer,
		m.AppBalance, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update contract "+m.ContractID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, m.ContractID)
	}
	return nil
}

// DeleteContract removes a contract of the owner.
func (r *PgxContractRepository) DeleteContract(ctx context.Context, ownerID, contractID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM contracts WHERE owner_id = $1 AND contract_id = $2;`, ownerID, contractID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete contract "+contractID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, contractID)
	}
	return nil
}
