package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, householdID, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, householdID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByHousehold(ctx context.Context, householdID string) ([]domain.Expense, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesPage(ctx context.Context, householdID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	args := m.Called(ctx, householdID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Expense), returnedNextToken, args.Error(2)
}

func (m *MockExpenseRepository) AppendExpense(ctx context.Context, householdID string, expense domain.Expense) (string, error) {
	args := m.Called(ctx, householdID, expense)
	return args.String(0), args.Error(1)
}

func (m *MockExpenseRepository) UpdatePaymentStatus(ctx context.Context, householdID, expenseID, debtorID string, paid bool, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, householdID, expenseID, debtorID, paid, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockExpenseRepository) SubscribeExpenses(ctx context.Context, householdID string) (portsrepo.ExpenseSubscription, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portsrepo.ExpenseSubscription), args.Error(1)
}

// --- Mock MembershipRepository ---
type MockMembershipRepository struct {
	mock.Mock
}

var _ portsrepo.MembershipReader = (*MockMembershipRepository)(nil)

func (m *MockMembershipRepository) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Household), args.Error(1)
}

func (m *MockMembershipRepository) GetMembers(ctx context.Context, householdID string) ([]domain.Member, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

// fakeSubscription is a subscription whose deliveries are pushed by the test.
type fakeSubscription struct {
	ch   chan portsrepo.ExpenseSnapshot
	once sync.Once
}

var _ portsrepo.ExpenseSubscription = (*fakeSubscription)(nil)

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{ch: make(chan portsrepo.ExpenseSnapshot, 8)}
}

func (f *fakeSubscription) Snapshots() <-chan portsrepo.ExpenseSnapshot {
	return f.ch
}

func (f *fakeSubscription) Close() error {
	f.once.Do(func() { close(f.ch) })
	return nil
}

func (f *fakeSubscription) deliver(expenses ...domain.Expense) {
	f.ch <- portsrepo.ExpenseSnapshot{HouseholdID: "piso-1", Expenses: expenses}
}

func (f *fakeSubscription) fail(err error) {
	f.ch <- portsrepo.ExpenseSnapshot{HouseholdID: "piso-1", Err: err}
}
