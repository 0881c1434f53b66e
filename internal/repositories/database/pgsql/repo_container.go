package pgsql

import (
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/roomie_ledger/internal/platform/fanout"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres repositories. Subscriptions only
// receive changes while a ChangeListener on the same hub is running.
func NewRepositoryProvider(dbPool *pgxpool.Pool, hub *fanout.Hub) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExpenseRepo:    newPgxExpenseRepository(dbPool, hub),
		MembershipRepo: newPgxMembershipRepository(dbPool),
	}
}
