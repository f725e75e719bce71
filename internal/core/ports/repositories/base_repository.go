package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager exposes the transaction a repository uses for its
// multi-row writes. Journey close, edit and cascade delete each run inside a
// single transaction so the journey, its automatic entry and the contract
// snapshot never diverge.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	// Rollback is a no-op on an already committed transaction.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
