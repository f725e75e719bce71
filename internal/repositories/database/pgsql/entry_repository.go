package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/giropositivo/giro_backend/internal/apperrors"
	"github.com/giropositivo/giro_backend/internal/core/domain"
	portsrepo "github.com/giropositivo/giro_backend/internal/core/ports/repositories"
	"github.com/giropositivo/giro_backend/internal/models"
	"github.com/giropositivo/giro_backend/internal/utils/mapping"
	"github.com/giropositivo/giro_backend/internal/utils/pagination"
)

const entryColumns = `
	entry_id, owner_id, contract_id, journey_id, kind, category, description,
	amount, entry_date, platform, is_recharge, origin, km_recorded,
	price_per_liter, discount,
	created_at, created_by, last_updated_at, last_updated_by`

// walletCreditCondition matches manual APP_RECHARGE entries and APP_TAX entries flagged as recharges.
const walletCreditCondition = `origin <> 'automatic' AND (kind = 'APP_RECHARGE' OR (kind = 'APP_TAX' AND is_recharge))`

// PgxEntryRepository stores entries in Postgres.
type PgxEntryRepository struct {
	BaseRepository
}

func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

func scanEntry(row pgx.Row) (models.Entry, error) {
	var m models.Entry
	err := row.Scan(
		&m.EntryID,
		&m.OwnerID,
		&m.ContractID,
		&m.JourneyID,
		&m.Kind,
		&m.Category,
		&m.Description,
		&m.Amount,
		&m.EntryDate,
		&m.Platform,
		&m.IsRecharge,
		&m.Origin,
		&m.KmRecorded,
		&m.PricePerLiter,
		&m.Discount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectEntries(rows pgx.Rows) ([]domain.Entry, error) {
	defer rows.Close()
	var ms []models.Entry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}
	return mapping.ToDomainEntrySlice(ms), nil
}

func (r *PgxEntryRepository) queryEntries(ctx context.Context, where string, args ...any) ([]domain.Entry, error) {
	return selectEntries(ctx, r.Pool, where, args...)
}

func selectEntries(ctx context.Context, q querier, where string, args ...any) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE ` + where + ` ORDER BY entry_date, created_at;`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries", err)
	}
	return collectEntries(rows)
}

// SaveEntry inserts a new entry and moves the contract wallet by walletDelta.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.Entry, walletDelta decimal.Decimal) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := shareLockJourney(ctx, tx, entry); err != nil {
			return err
		}
		if err := insertEntry(ctx, tx, entry); err != nil {
			return err
		}
		return adjustAppBalance(ctx, tx, entry.OwnerID, entry.ContractID, walletDelta)
	})
}

// shareLockJourney holds the linked journey row until the entry write
// commits, so a concurrent reconciliation sees either all or none of it.
func shareLockJourney(ctx context.Context, tx pgx.Tx, entry domain.Entry) error {
	if entry.JourneyID == nil {
		return nil
	}
	_, err := tx.Exec(ctx, `SELECT 1 FROM journeys WHERE owner_id = $1 AND journey_id = $2 FOR SHARE;`,
		entry.OwnerID, *entry.JourneyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock journey "+*entry.JourneyID, err)
	}
	return nil
}

// adjustAppBalance adds delta to the app wallet balance of the contract.
func adjustAppBalance(ctx context.Context, q querier, ownerID, contractID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	tag, err := q.Exec(ctx,
		`UPDATE contracts SET app_balance = app_balance + $3 WHERE owner_id = $1 AND contract_id = $2;`,
		ownerID, contractID, delta)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust app balance of contract "+contractID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, contractID)
	}
	return nil
}

func insertEntry(ctx context.Context, q querier, entry domain.Entry) error {
	m := mapping.ToModelEntry(entry)
	query := `INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);`

	_, err := q.Exec(ctx, query,
		m.EntryID, m.OwnerID, m.ContractID, m.JourneyID, m.Kind, m.Category, m.Description,
		m.Amount, m.EntryDate, m.Platform, m.IsRecharge, m.Origin, m.KmRecorded,
		m.PricePerLiter, m.Discount,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entry with ID %s already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return apperrors.NewAppError(500, "failed to insert entry "+m.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves an entry of the owner.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, ownerID, entryID string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE owner_id = $1 AND entry_id = $2;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, ownerID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, apperrors.NewAppError(500, "failed to find entry "+entryID, err)
	}
	e := mapping.ToDomainEntry(m)
	return &e, nil
}

// ListEntries retrieves a page of entries ordered by entry_date and created_at, newest first.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, ownerID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	// One extra row tells whether a next page exists
	fetchLimit := limit + 1

	w := &whereBuilder{}
	w.add("owner_id = ?", ownerID)
	if filter.ContractID != "" {
		w.add("contract_id = ?", filter.ContractID)
	}
	if filter.JourneyID != "" {
		w.add("journey_id = ?", filter.JourneyID)
	}
	if !filter.From.IsZero() {
		w.add("entry_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		w.add("entry_date < ?", filter.To)
	}

	cursor, err := pagination.DecodeOptionalToken(nextToken)
	if err != nil {
		return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
	}
	if cursor != nil {
		w.add("(entry_date, created_at) < (?, ?)", cursor.SortKey, cursor.CreatedAt)
	}

	query := `SELECT ` + entryColumns + ` FROM entries ` + w.clause() +
		` ORDER BY entry_date DESC, created_at DESC ` + w.limit(fetchLimit) + `;`
	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list entries", err)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		next = &token
		entries = entries[:limit]
	}
	return entries, next, nil
}

// FindEntriesInRange retrieves every entry of the contract dated in [from, to].
func (r *PgxEntryRepository) FindEntriesInRange(ctx context.Context, ownerID, contractID string, from, to time.Time) ([]domain.Entry, error) {
	return r.queryEntries(ctx, `owner_id = $1 AND contract_id = $2 AND entry_date BETWEEN $3 AND $4`,
		ownerID, contractID, from, to)
}

// FindUnlinkedWalletCredits retrieves manual wallet credits without a journey.
func (r *PgxEntryRepository) FindUnlinkedWalletCredits(ctx context.Context, ownerID string) ([]domain.Entry, error) {
	return r.queryEntries(ctx, `owner_id = $1 AND journey_id IS NULL AND `+walletCreditCondition, ownerID)
}

// FindEntriesWithoutContract retrieves legacy entries with a NULL contract.
func (r *PgxEntryRepository) FindEntriesWithoutContract(ctx context.Context, ownerID string) ([]domain.Entry, error) {
	return r.queryEntries(ctx, `owner_id = $1 AND contract_id IS NULL`, ownerID)
}

// UpdateEntry rewrites the mutable columns of an entry and moves the contract
// wallet by walletDelta.
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, entry domain.Entry, walletDelta decimal.Decimal) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := shareLockJourney(ctx, tx, entry); err != nil {
			return err
		}
		if err := updateEntry(ctx, tx, entry); err != nil {
			return err
		}
		return adjustAppBalance(ctx, tx, entry.OwnerID, entry.ContractID, walletDelta)
	})
}

func updateEntry(ctx context.Context, q querier, entry domain.Entry) error {
	m := mapping.ToModelEntry(entry)
	query := `
		UPDATE entries SET
			journey_id = $3, kind = $4, category = $5, description = $6, amount = $7,
			entry_date = $8, platform = $9, is_recharge = $10, origin = $11,
			km_recorded = $12, price_per_liter = $13, discount = $14,
			last_updated_at = $15, last_updated_by = $16
		WHERE owner_id = $1 AND entry_id = $2;`

	tag, err := q.Exec(ctx, query,
		m.OwnerID, m.EntryID, m.JourneyID, m.Kind, m.Category, m.Description, m.Amount,
		m.EntryDate, m.Platform, m.IsRecharge, m.Origin,
		m.KmRecorded, m.PricePerLiter, m.Discount,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update entry "+m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, m.EntryID)
	}
	return nil
}

// DeleteEntry removes an entry of the owner and moves the contract wallet by walletDelta.
func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, entry domain.Entry, walletDelta decimal.Decimal) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := shareLockJourney(ctx, tx, entry); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM entries WHERE owner_id = $1 AND entry_id = $2;`, entry.OwnerID, entry.EntryID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to delete entry "+entry.EntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entry.EntryID)
		}
		return adjustAppBalance(ctx, tx, entry.OwnerID, entry.ContractID, walletDelta)
	})
}

// UpdateEntryLinks rewrites contract and journey links of entries in one transaction.
func (r *PgxEntryRepository) UpdateEntryLinks(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.withTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range entries {
			m := mapping.ToModelEntry(e)
			batch.Queue(`UPDATE entries SET contract_id = $3, journey_id = $4 WHERE owner_id = $1 AND entry_id = $2;`,
				m.OwnerID, m.EntryID, m.ContractID, m.JourneyID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to update entry links", err)
		}
		return nil
	})
}
