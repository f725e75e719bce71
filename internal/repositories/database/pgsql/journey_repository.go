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
	"github.com/giropositivo/giro_backend/internal/utils/pagination"
)

const journeyColumns = `
	journey_id, owner_id, contract_id, reference_day, started_at, ended_at,
	km_start, km_end, balance_start, balance_end, closed,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxJourneyRepository stores journeys in Postgres and persists reconciliations atomically.
type PgxJourneyRepository struct {
	BaseRepository
}

func newPgxJourneyRepository(pool *pgxpool.Pool) portsrepo.JourneyRepositoryWithTx {
	return &PgxJourneyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJourneyRepository implements portsrepo.JourneyRepositoryWithTx
var _ portsrepo.JourneyRepositoryWithTx = (*PgxJourneyRepository)(nil)

func scanJourney(row pgx.Row) (models.Journey, error) {
	var m models.Journey
	err := row.Scan(
		&m.JourneyID,
		&m.OwnerID,
		&m.ContractID,
		&m.ReferenceDay,
		&m.StartedAt,
		&m.EndedAt,
		&m.KmStart,
		&m.KmEnd,
		&m.BalanceStart,
		&m.BalanceEnd,
		&m.Closed,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectJourneys(rows pgx.Rows) ([]domain.Journey, error) {
	defer rows.Close()
	var ms []models.Journey
	for rows.Next() {
		m, err := scanJourney(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journey row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journey rows", err)
	}
	return mapping.ToDomainJourneySlice(ms), nil
}

func (r *PgxJourneyRepository) queryJourneys(ctx context.Context, where string, args ...any) ([]domain.Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys WHERE ` + where + ` ORDER BY started_at, created_at;`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journeys", err)
	}
	return collectJourneys(rows)
}

func (r *PgxJourneyRepository) findOne(ctx context.Context, what, where string, args ...any) (*domain.Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys WHERE ` + where + ` LIMIT 1;`
	m, err := scanJourney(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
		}
		return nil, apperrors.NewAppError(500, "failed to find "+what, err)
	}
	j := mapping.ToDomainJourney(m)
	return &j, nil
}

// SaveJourney inserts a newly opened journey. The partial unique index on open
// journeys turns a concurrent second start into ErrDuplicate.
func (r *PgxJourneyRepository) SaveJourney(ctx context.Context, journey domain.Journey) error {
	m := mapping.ToModelJourney(journey)
	query := `INSERT INTO journeys (` + journeyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`

	_, err := r.Pool.Exec(ctx, query,
		m.JourneyID, m.OwnerID, m.ContractID, m.ReferenceDay, m.StartedAt, m.EndedAt,
		m.KmStart, m.KmEnd, m.BalanceStart, m.BalanceEnd, m.Closed,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: contract already has an open journey", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert journey "+m.JourneyID, err)
	}
	return nil
}

// FindJourneyByID retrieves a journey of the owner.
func (r *PgxJourneyRepository) FindJourneyByID(ctx context.Context, ownerID, journeyID string) (*domain.Journey, error) {
	return r.findOne(ctx, "journey "+journeyID, `owner_id = $1 AND journey_id = $2`, ownerID, journeyID)
}

// FindOpenJourney retrieves the open journey of the contract.
func (r *PgxJourneyRepository) FindOpenJourney(ctx context.Context, ownerID, contractID string) (*domain.Journey, error) {
	return r.findOne(ctx, "open journey", `owner_id = $1 AND contract_id = $2 AND NOT closed`, ownerID, contractID)
}

// ListJourneys retrieves a page of journeys ordered by started_at and created_at, newest first.
func (r *PgxJourneyRepository) ListJourneys(ctx context.Context, ownerID, contractID string, limit int, nextToken *string) ([]domain.Journey, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	fetchLimit := limit + 1

	w := &whereBuilder{}
	w.add("owner_id = ?", ownerID)
	if contractID != "" {
		w.add("contract_id = ?", contractID)
	}
	cursor, err := pagination.DecodeOptionalToken(nextToken)
	if err != nil {
		return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
	}
	if cursor != nil {
		w.add("(started_at, created_at) < (?, ?)", cursor.SortKey, cursor.CreatedAt)
	}

	query := `SELECT ` + journeyColumns + ` FROM journeys ` + w.clause() +
		` ORDER BY started_at DESC, created_at DESC ` + w.limit(fetchLimit) + `;`
	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list journeys", err)
	}
	journeys, err := collectJourneys(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(journeys) > limit {
		last := journeys[limit-1]
		token := pagination.EncodeToken(last.StartedAt, last.CreatedAt)
		next = &token
		journeys = journeys[:limit]
	}
	return journeys, next, nil
}

// FindJourneysByReferenceDays retrieves journeys of the contract whose reference day is in [fromDay, toDay].
func (r *PgxJourneyRepository) FindJourneysByReferenceDays(ctx context.Context, ownerID, contractID, fromDay, toDay string) ([]domain.Journey, error) {
	return r.queryJourneys(ctx, `owner_id = $1 AND contract_id = $2 AND reference_day BETWEEN $3::date AND $4::date`,
		ownerID, contractID, fromDay, toDay)
}

// FindClosedJourneys retrieves every closed journey of the owner.
func (r *PgxJourneyRepository) FindClosedJourneys(ctx context.Context, ownerID string) ([]domain.Journey, error) {
	return r.queryJourneys(ctx, `owner_id = $1 AND closed`, ownerID)
}

// FindJourneysWithoutContract retrieves legacy journeys with a NULL contract.
func (r *PgxJourneyRepository) FindJourneysWithoutContract(ctx context.Context, ownerID string) ([]domain.Journey, error) {
	return r.queryJourneys(ctx, `owner_id = $1 AND contract_id IS NULL`, ownerID)
}

// SaveJourneyReconciliation plans and persists a reconciliation in a single
// transaction. The journey row is locked FOR UPDATE before its linked entries
// are read; entry writers take FOR SHARE on the same row, so no linked entry
// can change between the read and the commit.
func (r *PgxJourneyRepository) SaveJourneyReconciliation(ctx context.Context, journey domain.Journey, planner portsrepo.ReconciliationPlanner) (*domain.JourneyReconciliation, error) {
	var plan domain.JourneyReconciliation
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `SELECT 1 FROM journeys WHERE owner_id = $1 AND journey_id = $2 FOR UPDATE;`,
			journey.OwnerID, journey.JourneyID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to lock journey "+journey.JourneyID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: journey %s", apperrors.ErrNotFound, journey.JourneyID)
		}

		linked, err := selectEntries(ctx, tx, `owner_id = $1 AND journey_id = $2`, journey.OwnerID, journey.JourneyID)
		if err != nil {
			return err
		}
		if plan, err = planner(linked); err != nil {
			return err
		}

		if err := updateJourney(ctx, tx, plan.Journey); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`DELETE FROM entries WHERE owner_id = $1 AND journey_id = $2 AND origin = 'automatic';`,
			plan.Journey.OwnerID, plan.Journey.JourneyID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to remove automatic entry of journey "+plan.Journey.JourneyID, err)
		}

		if plan.AutomaticEntry != nil {
			if err := insertEntry(ctx, tx, *plan.AutomaticEntry); err != nil {
				return err
			}
		}

		return storeContractSnapshot(ctx, tx, plan.Contract)
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// storeContractSnapshot writes only the odometer and wallet balance so other
// contract edits made since the plan was built survive.
func storeContractSnapshot(ctx context.Context, q querier, contract domain.Contract) error {
	tag, err := q.Exec(ctx, `
		UPDATE contracts SET
			current_odometer = $3, app_balance = $4, last_updated_at = $5, last_updated_by = $6
		WHERE owner_id = $1 AND contract_id = $2;`,
		contract.OwnerID, contract.ContractID, contract.CurrentOdometer, contract.AppBalance,
		contract.LastUpdatedAt, contract.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to store snapshot of contract "+contract.ContractID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, contract.ContractID)
	}
	return nil
}

func updateJourney(ctx context.Context, q querier, journey domain.Journey) error {
	m := mapping.ToModelJourney(journey)
	query := `
		UPDATE journeys SET
			reference_day = $3, started_at = $4, ended_at = $5, km_start = $6, km_end = $7,
			balance_start = $8, balance_end = $9, closed = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE owner_id = $1 AND journey_id = $2;`

	tag, err := q.Exec(ctx, query,
		m.OwnerID, m.JourneyID, m.ReferenceDay, m.StartedAt, m.EndedAt, m.KmStart, m.KmEnd,
		m.BalanceStart, m.BalanceEnd, m.Closed,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journey "+m.JourneyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journey %s", apperrors.ErrNotFound, m.JourneyID)
	}
	return nil
}

// DeleteJourneyCascade removes the journey and every entry linked to it in one transaction.
func (r *PgxJourneyRepository) DeleteJourneyCascade(ctx context.Context, ownerID, journeyID string) (int64, error) {
	var removed int64
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM entries WHERE owner_id = $1 AND journey_id = $2;`, ownerID, journeyID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to delete entries of journey "+journeyID, err)
		}
		removed = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM journeys WHERE owner_id = $1 AND journey_id = $2;`, ownerID, journeyID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to delete journey "+journeyID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: journey %s", apperrors.ErrNotFound, journeyID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// UpdateJourneyContracts rewrites the contract link of journeys in one transaction.
func (r *PgxJourneyRepository) UpdateJourneyContracts(ctx context.Context, journeys []domain.Journey) error {
	if len(journeys) == 0 {
		return nil
	}
	return r.withTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, j := range journeys {
			batch.Queue(`UPDATE journeys SET contract_id = $3 WHERE owner_id = $1 AND journey_id = $2;`,
				j.OwnerID, j.JourneyID, j.ContractID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to update journey contracts", err)
		}
		return nil
	})
}
