package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/giropositivo/giro_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every Postgres repository onto the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ContractRepo: newPgxContractRepository(dbPool),
		EntryRepo:    newPgxEntryRepository(dbPool),
		JourneyRepo:  newPgxJourneyRepository(dbPool),
	}
}
