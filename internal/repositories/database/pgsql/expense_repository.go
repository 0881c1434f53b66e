package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/roomie_ledger/internal/models"
	"github.com/SscSPs/roomie_ledger/internal/platform/fanout"
	"github.com/SscSPs/roomie_ledger/internal/repositories/database/feed"
	"github.com/SscSPs/roomie_ledger/internal/utils/mapping"
	"github.com/SscSPs/roomie_ledger/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExpenseRepository stores expenses in Postgres. participantIds is a
// text[] column and paymentStatus a jsonb object, so a toggle is a single
// jsonb_set on one key.
type PgxExpenseRepository struct {
	BaseRepository
	hub *fanout.Hub
}

// newPgxExpenseRepository creates a new repository for expense data.
// Change signals on hub are fed by a ChangeListener.
func newPgxExpenseRepository(pool *pgxpool.Pool, hub *fanout.Hub) *PgxExpenseRepository {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
		hub:            hub,
	}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepositoryFacade
var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseCols = `expense_id, household_id, title, amount, description, occurred_at, payer_id,
	participant_ids, payment_status, created_at, created_by, last_updated_at, last_updated_by`

const foreignKeyViolation = "23503"

const expenseOrder = ` ORDER BY occurred_at DESC, created_at DESC, expense_id DESC`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.HouseholdID,
		&m.Title,
		&m.Amount,
		&m.Description,
		&m.OccurredAt,
		&m.PayerID,
		&m.ParticipantIDs,
		&m.PaymentStatus,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// AppendExpense inserts the whole record in one statement. The triggers on
// the expenses table announce the change.
func (r *PgxExpenseRepository) AppendExpense(ctx context.Context, householdID string, expense domain.Expense) (string, error) {
	m := mapping.ToModelExpense(expense)
	m.HouseholdID = householdID
	if m.ExpenseID == "" {
		m.ExpenseID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.LastUpdatedAt.IsZero() {
		m.LastUpdatedAt = m.CreatedAt
	}
	if m.LastUpdatedBy == "" {
		m.LastUpdatedBy = m.CreatedBy
	}

	query := `
		INSERT INTO expenses (` + expenseCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExpenseID,
		m.HouseholdID,
		m.Title,
		m.Amount,
		m.Description,
		m.OccurredAt,
		m.PayerID,
		m.ParticipantIDs,
		m.PaymentStatus,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return "", apperrors.NewAppError(http.StatusNotFound, "household "+householdID+" not found", apperrors.ErrNotFound)
	}
	if err != nil {
		return "", writeError("failed to insert expense "+m.ExpenseID, err)
	}
	return m.ExpenseID, nil
}

// UpdatePaymentStatus sets paymentStatus[debtorID] in place. The payer,
// participant and non-payer conditions are part of the UPDATE, so a
// concurrent toggle of another debtor is never overwritten.
func (r *PgxExpenseRepository) UpdatePaymentStatus(ctx context.Context, householdID, expenseID, debtorID string, paid bool, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE expenses
		SET payment_status = jsonb_set(payment_status, ARRAY[$3::text], to_jsonb($4::boolean), true),
		    last_updated_at = $6,
		    last_updated_by = $5
		WHERE household_id = $1
		  AND expense_id = $2
		  AND payer_id = $5
		  AND payer_id <> $3
		  AND $3 = ANY(participant_ids);
	`
	tag, err := r.Pool.Exec(ctx, query, householdID, expenseID, debtorID, paid, updatedBy, updatedAt)
	if err != nil {
		return writeError("failed to update payment status", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.explainRejectedToggle(ctx, householdID, expenseID, debtorID, updatedBy)
}

func (r *PgxExpenseRepository) explainRejectedToggle(ctx context.Context, householdID, expenseID, debtorID, updatedBy string) error {
	var payerID string
	var participants []string
	err := r.Pool.QueryRow(ctx,
		`SELECT payer_id, participant_ids FROM expenses WHERE household_id = $1 AND expense_id = $2`,
		householdID, expenseID,
	).Scan(&payerID, &participants)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewAppError(http.StatusNotFound, "expense "+expenseID+" not found", apperrors.ErrNotFound)
	}
	if err != nil {
		return unavailable("failed to look up expense", err)
	}

	switch {
	case payerID != updatedBy:
		return rejected(http.StatusForbidden, "only the payer can change payment status")
	case debtorID == payerID:
		return rejected(http.StatusConflict, "the payer cannot owe themselves")
	default:
		return rejected(http.StatusConflict, debtorID+" is not a participant of expense "+expenseID)
	}
}

// FindExpenseByID retrieves a single expense of a household.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, householdID, expenseID string) (*domain.Expense, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+expenseCols+` FROM expenses WHERE household_id = $1 AND expense_id = $2`,
		householdID, expenseID,
	)
	m, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewAppError(http.StatusNotFound, "expense "+expenseID+" not found", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("failed to get expense "+expenseID, err)
	}
	e := mapping.ToDomainExpense(m)
	return &e, nil
}

// ListExpensesByHousehold returns every expense of the household, newest first.
func (r *PgxExpenseRepository) ListExpensesByHousehold(ctx context.Context, householdID string) ([]domain.Expense, error) {
	list, err := r.queryExpenses(ctx, `SELECT `+expenseCols+` FROM expenses WHERE household_id = $1`+expenseOrder, householdID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainExpenses(list), nil
}

// ListExpensesPage retrieves a page of expenses using keyset pagination on
// (occurred_at, created_at, expense_id).
func (r *PgxExpenseRepository) ListExpensesPage(ctx context.Context, householdID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	query := `SELECT ` + expenseCols + ` FROM expenses WHERE household_id = $1`
	args := []any{householdID}
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid pagination token", fmt.Errorf("%w: %w", apperrors.ErrValidation, err))
		}
		query += ` AND (occurred_at, created_at, expense_id) < ($2, $3, $4)`
		args = append(args, c.OccurredAt, c.CreatedAt, c.ID)
	}
	query += expenseOrder + fmt.Sprintf(` LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	list, err := r.queryExpenses(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(list) > limit {
		list = list[:limit]
		last := list[len(list)-1]
		token := pagination.EncodeCursor(pagination.Cursor{OccurredAt: last.OccurredAt, CreatedAt: last.CreatedAt, ID: last.ExpenseID})
		next = &token
	}
	return mapping.ToDomainExpenses(list), next, nil
}

// SubscribeExpenses opens a level-triggered feed on the household.
func (r *PgxExpenseRepository) SubscribeExpenses(ctx context.Context, householdID string) (portsrepo.ExpenseSubscription, error) {
	return feed.Open(ctx, r.hub, householdID, r.ListExpensesByHousehold), nil
}

func (r *PgxExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, unavailable("failed to list expenses", err)
	}
	defer rows.Close()

	var list []models.Expense
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, unavailable("failed to scan expense", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("failed to iterate expenses", err)
	}
	return list, nil
}
