package services

import (
	"context"
	"time"

	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	"github.com/SscSPs/roomie_ledger/internal/core/ledger"
)

// ExpenseWriterSvc defines the settlement commands
type ExpenseWriterSvc interface {
	// CreateExpense validates the input locally, builds the initial payment status and
	// appends the expense. It returns the new expense ID, an *apperrors.ValidationError
	// naming the first failing field, or a store error. It never retries.
	CreateExpense(ctx context.Context, householdID string, input domain.NewExpenseInput) (string, error)

	// SetPaymentStatus flips one debtor's flag on one expense. The acting member is
	// taken from ctx; the store rejects the write unless it is the payer.
	SetPaymentStatus(ctx context.Context, householdID, expenseID, debtorID string, paid bool) error
}

// ExpenseReaderSvc defines one-shot reads over a household's expenses
type ExpenseReaderSvc interface {
	// ListExpenses returns one page of expenses, newest first, decorated for viewerID.
	ListExpenses(ctx context.Context, householdID, viewerID string, limit int, nextToken *string) (*ExpensePage, error)

	// GetLedger opens a view, waits until it is ready and returns its snapshot.
	GetLedger(ctx context.Context, householdID, viewerID string) (*ViewSnapshot, error)
}

// HouseholdViewerSvc opens live household views
type HouseholdViewerSvc interface {
	// Subscribe opens one store subscription for the household and returns the view
	// fed by it. The caller must Close the view.
	Subscribe(ctx context.Context, householdID, viewerID string) (HouseholdView, error)
}

// SettlementSvcFacade combines all settlement-related service interfaces
type SettlementSvcFacade interface {
	ExpenseWriterSvc
	ExpenseReaderSvc
	HouseholdViewerSvc
}

// MembershipSvc exposes the membership resolver to the presentation layer.
type MembershipSvc interface {
	GetHousehold(ctx context.Context, householdID string) (*domain.Household, []domain.Member, error)
}

// ViewState is the lifecycle state of a household view.
type ViewState string

const (
	ViewIdle    ViewState = "IDLE"
	ViewLoading ViewState = "LOADING"
	ViewReady   ViewState = "READY"
	ViewFailed  ViewState = "FAILED" // terminal; the last good snapshot stays visible
)

// HouseholdView is a live, recomputed ledger of one household as seen by one member.
type HouseholdView interface {
	// Snapshot returns the current state. It never blocks on the store.
	Snapshot() ViewSnapshot

	// Changes receives a value after every state change, coalesced. It is closed by Close.
	Changes() <-chan struct{}

	// Ready blocks until the first snapshot was applied or the view failed.
	Ready(ctx context.Context) error

	// SetPaymentStatus applies the toggle to the view immediately and writes it through
	// the controller. On failure the previous value is restored.
	SetPaymentStatus(ctx context.Context, expenseID, debtorID string, paid bool) error

	// Close tears the subscription down. In-flight writes still complete.
	Close() error
}

// ExpenseLine is an expense decorated for display.
type ExpenseLine struct {
	domain.Expense
	PayerName string              `json:"payerName"` // raw payer ID when the payer is no longer a member
	Viewer    ledger.ViewerStatus `json:"viewer"`
	Debtors   []ledger.Debtor     `json:"debtors"`
	Pending   bool                `json:"pending"` // an optimistic toggle is in flight
}

// ViewSnapshot is everything a household screen renders.
type ViewSnapshot struct {
	HouseholdID string           `json:"householdId"`
	ViewerID    string           `json:"viewerId"`
	State       ViewState        `json:"state"`
	Err         error            `json:"-"`
	Version     uint64           `json:"version"`
	Expenses    []ExpenseLine    `json:"expenses"`
	Summary     ledger.Summary   `json:"summary"`
	Balances    []ledger.Summary `json:"balances"`
	Members     []domain.Member  `json:"members"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ExpensePage is one page of ListExpenses.
type ExpensePage struct {
	Expenses  []ExpenseLine
	NextToken *string
}
