package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/roomie_ledger/internal/core/domain"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves a single expense of a household.
	FindExpenseByID(ctx context.Context, householdID, expenseID string) (*domain.Expense, error)

	// ListExpensesByHousehold returns the full current expense set of a household,
	// ordered by occurredAt desc then createdAt desc.
	ListExpensesByHousehold(ctx context.Context, householdID string) ([]domain.Expense, error)

	// ListExpensesPage retrieves one page of a household's expenses in the same order
	// using token-based pagination. It returns the expenses, a token for the next page, and an error.
	ListExpensesPage(ctx context.Context, householdID string, limit int, nextToken *string) ([]domain.Expense, *string, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// AppendExpense atomically persists a new expense and returns its store-assigned ID.
	// Either the whole record is committed or none of it.
	AppendExpense(ctx context.Context, householdID string, expense domain.Expense) (string, error)

	// UpdatePaymentStatus sets a single paymentStatus entry without rewriting the rest of the map.
	// The store accepts the write only when updatedBy is the expense's payer and rejects it
	// with apperrors.ErrWriteRejected otherwise.
	UpdatePaymentStatus(ctx context.Context, householdID, expenseID, debtorID string, paid bool, updatedBy string, updatedAt time.Time) error
}

// ExpenseSnapshot is one delivery of a subscription: the complete current
// expense set of the household, or a terminal error.
type ExpenseSnapshot struct {
	HouseholdID string
	Expenses    []domain.Expense
	Err         error
}

// ExpenseSubscription is a live, level-triggered feed of household snapshots.
//
// The first delivery is the current set. Later deliveries follow changes,
// possibly coalesced. A delivery with Err set is the last one; the channel is
// closed afterwards. Close releases the feed and closes the channel.
type ExpenseSubscription interface {
	Snapshots() <-chan ExpenseSnapshot
	Close() error
}

// ExpenseSubscriber opens subscriptions on a household's expenses
type ExpenseSubscriber interface {
	SubscribeExpenses(ctx context.Context, householdID string) (ExpenseSubscription, error)
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
	ExpenseSubscriber
}
