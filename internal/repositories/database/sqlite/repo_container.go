package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/roomie_ledger/internal/platform/fanout"
)

// NewRepositoryProvider wires the SQLite repositories around one database handle.
func NewRepositoryProvider(db *sql.DB, hub *fanout.Hub) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExpenseRepo:    NewExpenseRepository(db, hub),
		MembershipRepo: NewMembershipRepository(db),
	}
}
