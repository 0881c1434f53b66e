package sqlite

import (
	"context"
	"database/sql"
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
)

// ExpenseRepository stores expenses in SQLite. Changes are announced on the
// hub in-process, so subscriptions only observe writes made through the
// same repository instance.
type ExpenseRepository struct {
	db  *sql.DB
	hub *fanout.Hub
}

// NewExpenseRepository creates a new SQLite-backed expense repository.
func NewExpenseRepository(db *sql.DB, hub *fanout.Hub) *ExpenseRepository {
	return &ExpenseRepository{db: db, hub: hub}
}

var _ portsrepo.ExpenseRepositoryFacade = (*ExpenseRepository)(nil)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const expenseCols = `expense_id, household_id, title, amount, description, occurred_at, payer_id,
	created_at, created_by, last_updated_at, last_updated_by`

const expenseOrder = ` ORDER BY occurred_at DESC, created_at DESC, expense_id DESC`

func scanExpense(s scanner) (models.Expense, error) {
	var m models.Expense
	var occurredAt, createdAt, updatedAt string
	err := s.Scan(
		&m.ExpenseID, &m.HouseholdID, &m.Title, &m.Amount, &m.Description, &occurredAt, &m.PayerID,
		&createdAt, &m.CreatedBy, &updatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return models.Expense{}, err
	}
	if m.OccurredAt, err = parseTime(occurredAt); err != nil {
		return models.Expense{}, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Expense{}, err
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Expense{}, err
	}
	return m, nil
}

func unavailable(msg string, err error) error {
	return apperrors.NewAppError(http.StatusServiceUnavailable, msg, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err))
}

func rejected(code int, msg string, err error) error {
	if err == nil {
		return apperrors.NewAppError(code, msg, apperrors.ErrWriteRejected)
	}
	return apperrors.NewAppError(code, msg, fmt.Errorf("%w: %w", apperrors.ErrWriteRejected, err))
}

// AppendExpense inserts the expense with its participants and payment
// entries in one transaction and returns the new expense ID.
func (r *ExpenseRepository) AppendExpense(ctx context.Context, householdID string, expense domain.Expense) (string, error) {
	m := mapping.ToModelExpense(expense)
	m.HouseholdID = householdID
	if m.ExpenseID == "" {
		m.ExpenseID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.LastUpdatedAt.IsZero() {
		m.LastUpdatedAt = m.CreatedAt
	}
	if m.LastUpdatedBy == "" {
		m.LastUpdatedBy = m.CreatedBy
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", unavailable("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM households WHERE household_id = ?`, householdID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.NewAppError(http.StatusNotFound, "household "+householdID+" not found", apperrors.ErrNotFound)
	}
	if err != nil {
		return "", unavailable("failed to look up household", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO expenses (`+expenseCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ExpenseID, m.HouseholdID, m.Title, m.Amount, m.Description, formatTime(m.OccurredAt), m.PayerID,
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy,
	)
	if err != nil {
		return "", rejected(http.StatusConflict, "failed to insert expense "+m.ExpenseID, err)
	}

	for i, p := range m.ParticipantIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expense_participants (expense_id, position, member_id) VALUES (?, ?, ?)`,
			m.ExpenseID, i, p,
		); err != nil {
			return "", rejected(http.StatusConflict, "failed to insert participant "+p, err)
		}
	}

	for debtor, paid := range m.PaymentStatus {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expense_payment_status (expense_id, debtor_id, has_reimbursed, updated_at, updated_by) VALUES (?, ?, ?, ?, ?)`,
			m.ExpenseID, debtor, paid, formatTime(m.CreatedAt), m.CreatedBy,
		); err != nil {
			return "", rejected(http.StatusConflict, "failed to insert payment status for "+debtor, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", unavailable("failed to commit expense "+m.ExpenseID, err)
	}

	r.hub.Notify(householdID)
	return m.ExpenseID, nil
}

// UpdatePaymentStatus upserts the single payment row of debtor.
func (r *ExpenseRepository) UpdatePaymentStatus(ctx context.Context, householdID, expenseID, debtorID string, paid bool, updatedBy string, updatedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var payerID string
	err = tx.QueryRowContext(ctx,
		`SELECT payer_id FROM expenses WHERE household_id = ? AND expense_id = ?`,
		householdID, expenseID,
	).Scan(&payerID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewAppError(http.StatusNotFound, "expense "+expenseID+" not found", apperrors.ErrNotFound)
	}
	if err != nil {
		return unavailable("failed to look up expense", err)
	}

	if updatedBy != payerID {
		return rejected(http.StatusForbidden, "only the payer can change payment status", nil)
	}
	if debtorID == payerID {
		return rejected(http.StatusConflict, "the payer cannot owe themselves", nil)
	}

	var isParticipant int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM expense_participants WHERE expense_id = ? AND member_id = ?`,
		expenseID, debtorID,
	).Scan(&isParticipant)
	if errors.Is(err, sql.ErrNoRows) {
		return rejected(http.StatusConflict, debtorID+" is not a participant of expense "+expenseID, nil)
	}
	if err != nil {
		return unavailable("failed to look up participant", err)
	}

	ts := formatTime(updatedAt)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO expense_payment_status (expense_id, debtor_id, has_reimbursed, updated_at, updated_by)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (expense_id, debtor_id) DO UPDATE SET
			has_reimbursed = excluded.has_reimbursed,
			updated_at = excluded.updated_at,
			updated_by = excluded.updated_by`,
		expenseID, debtorID, paid, ts, updatedBy,
	); err != nil {
		return rejected(http.StatusConflict, "failed to update payment status", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE expenses SET last_updated_at = ?, last_updated_by = ? WHERE expense_id = ?`,
		ts, updatedBy, expenseID,
	); err != nil {
		return rejected(http.StatusConflict, "failed to touch expense", err)
	}

	if err := tx.Commit(); err != nil {
		return unavailable("failed to commit payment status", err)
	}

	r.hub.Notify(householdID)
	return nil
}

// FindExpenseByID retrieves a single expense of a household.
func (r *ExpenseRepository) FindExpenseByID(ctx context.Context, householdID, expenseID string) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseCols+` FROM expenses WHERE household_id = ? AND expense_id = ?`,
		householdID, expenseID,
	)
	m, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewAppError(http.StatusNotFound, "expense "+expenseID+" not found", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("failed to get expense", err)
	}

	list := []models.Expense{m}
	if err := r.attachDetails(ctx, r.db, list); err != nil {
		return nil, err
	}
	e := mapping.ToDomainExpense(list[0])
	return &e, nil
}

// ListExpensesByHousehold returns every expense of the household, newest first.
func (r *ExpenseRepository) ListExpensesByHousehold(ctx context.Context, householdID string) ([]domain.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, unavailable("failed to begin read", err)
	}
	defer tx.Rollback()

	list, err := r.queryExpenses(ctx, tx, `SELECT `+expenseCols+` FROM expenses WHERE household_id = ?`+expenseOrder, householdID)
	if err != nil {
		return nil, err
	}
	if err := r.attachDetails(ctx, tx, list); err != nil {
		return nil, err
	}
	return mapping.ToDomainExpenses(list), nil
}

// ListExpensesPage returns one page of expenses in the same order as
// ListExpensesByHousehold, continuing after nextToken when set.
func (r *ExpenseRepository) ListExpensesPage(ctx context.Context, householdID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	query := `SELECT ` + expenseCols + ` FROM expenses WHERE household_id = ?`
	args := []any{householdID}
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid pagination token", fmt.Errorf("%w: %w", apperrors.ErrValidation, err))
		}
		occ, created := formatTime(c.OccurredAt), formatTime(c.CreatedAt)
		query += ` AND (occurred_at < ? OR (occurred_at = ? AND (created_at < ? OR (created_at = ? AND expense_id < ?))))`
		args = append(args, occ, occ, created, created, c.ID)
	}
	query += expenseOrder + ` LIMIT ?`
	args = append(args, limit+1)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, unavailable("failed to begin read", err)
	}
	defer tx.Rollback()

	list, err := r.queryExpenses(ctx, tx, query, args...)
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

	if err := r.attachDetails(ctx, tx, list); err != nil {
		return nil, nil, err
	}
	return mapping.ToDomainExpenses(list), next, nil
}

// SubscribeExpenses opens a level-triggered feed on the household.
func (r *ExpenseRepository) SubscribeExpenses(ctx context.Context, householdID string) (portsrepo.ExpenseSubscription, error) {
	return feed.Open(ctx, r.hub, householdID, r.ListExpensesByHousehold), nil
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, q querier, query string, args ...any) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx, query, args...)
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

// attachDetails fills participants and payment entries in place.
func (r *ExpenseRepository) attachDetails(ctx context.Context, q querier, list []models.Expense) error {
	if len(list) == 0 {
		return nil
	}
	index := make(map[string]int, len(list))
	ids := make([]any, 0, len(list))
	for i := range list {
		index[list[i].ExpenseID] = i
		ids = append(ids, list[i].ExpenseID)
		list[i].PaymentStatus = map[string]bool{}
	}
	in := placeholders(len(ids))

	rows, err := q.QueryContext(ctx,
		`SELECT expense_id, member_id FROM expense_participants WHERE expense_id IN (`+in+`) ORDER BY expense_id, position`,
		ids...,
	)
	if err != nil {
		return unavailable("failed to list participants", err)
	}
	for rows.Next() {
		var expenseID, memberID string
		if err := rows.Scan(&expenseID, &memberID); err != nil {
			rows.Close()
			return unavailable("failed to scan participant", err)
		}
		i := index[expenseID]
		list[i].ParticipantIDs = append(list[i].ParticipantIDs, memberID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return unavailable("failed to iterate participants", err)
	}

	rows, err = q.QueryContext(ctx,
		`SELECT expense_id, debtor_id, has_reimbursed FROM expense_payment_status WHERE expense_id IN (`+in+`)`,
		ids...,
	)
	if err != nil {
		return unavailable("failed to list payment status", err)
	}
	defer rows.Close()
	for rows.Next() {
		var expenseID, debtorID string
		var paid bool
		if err := rows.Scan(&expenseID, &debtorID, &paid); err != nil {
			return unavailable("failed to scan payment status", err)
		}
		list[index[expenseID]].PaymentStatus[debtorID] = paid
	}
	if err := rows.Err(); err != nil {
		return unavailable("failed to iterate payment status", err)
	}
	return nil
}
