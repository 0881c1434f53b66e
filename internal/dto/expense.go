package dto

import (
	"time"

	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	"github.com/SscSPs/roomie_ledger/internal/core/ledger"
	portssvc "github.com/SscSPs/roomie_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// --- Expense DTOs ---

// CreateExpenseRequest defines data for recording a new expense.
// Field checks run in the settlement controller so the first failing field
// is reported in a fixed order.
type CreateExpenseRequest struct {
	Title          string          `json:"title" example:"Groceries"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string" example:"30.00"`
	Description    string          `json:"description"`
	OccurredAt     time.Time       `json:"occurredAt"`
	PayerID        string          `json:"payerId"` // Defaults to the caller
	ParticipantIDs []string        `json:"participantIds"`
}

// ToDomain converts the request into controller input.
func (r CreateExpenseRequest) ToDomain() domain.NewExpenseInput {
	return domain.NewExpenseInput{
		Title:          r.Title,
		Amount:         r.Amount,
		Description:    r.Description,
		OccurredAt:     r.OccurredAt,
		PayerID:        r.PayerID,
		ParticipantIDs: r.ParticipantIDs,
	}
}

// CreateExpenseResponse returns the store-assigned expense ID.
type CreateExpenseResponse struct {
	ExpenseID string `json:"expenseId"`
}

// SetPaymentStatusRequest marks one debtor's share as paid or unpaid.
type SetPaymentStatusRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ExpenseResponse defines the data returned for an expense, decorated for the caller.
type ExpenseResponse struct {
	ExpenseID      string              `json:"expenseId"`
	HouseholdID    string              `json:"householdId"`
	Title          string              `json:"title"`
	Amount         decimal.Decimal     `json:"amount" swaggertype:"string"`
	Description    *string             `json:"description,omitempty"`
	OccurredAt     time.Time           `json:"occurredAt"`
	PayerID        string              `json:"payerId"`
	PayerName      string              `json:"payerName"`
	ParticipantIDs []string            `json:"participantIds"`
	PaymentStatus  map[string]bool     `json:"paymentStatus"`
	Viewer         ledger.ViewerStatus `json:"viewer"`
	Debtors        []ledger.Debtor     `json:"debtors"`
	Pending        bool                `json:"pending,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	CreatedBy      string              `json:"createdBy"`
	LastUpdatedAt  time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy  string              `json:"lastUpdatedBy"`
}

// ToExpenseResponse converts a decorated expense to DTO.
func ToExpenseResponse(l portssvc.ExpenseLine) ExpenseResponse {
	status := l.PaymentStatus
	if status == nil {
		status = map[string]bool{}
	}
	debtors := l.Debtors
	if debtors == nil {
		debtors = []ledger.Debtor{}
	}
	return ExpenseResponse{
		ExpenseID:      l.ExpenseID,
		HouseholdID:    l.HouseholdID,
		Title:          l.Title,
		Amount:         l.Amount,
		Description:    l.Description,
		OccurredAt:     l.OccurredAt,
		PayerID:        l.PayerID,
		PayerName:      l.PayerName,
		ParticipantIDs: l.ParticipantIDs,
		PaymentStatus:  status,
		Viewer:         l.Viewer,
		Debtors:        debtors,
		Pending:        l.Pending,
		CreatedAt:      l.CreatedAt,
		CreatedBy:      l.CreatedBy,
		LastUpdatedAt:  l.LastUpdatedAt,
		LastUpdatedBy:  l.LastUpdatedBy,
	}
}

// ToExpenseResponses converts a slice of decorated expenses.
func ToExpenseResponses(lines []portssvc.ExpenseLine) []ExpenseResponse {
	out := make([]ExpenseResponse, len(lines))
	for i, l := range lines {
		out[i] = ToExpenseResponse(l)
	}
	return out
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListExpensesResponse converts a controller page to DTO.
func ToListExpensesResponse(p *portssvc.ExpensePage) ListExpensesResponse {
	return ListExpensesResponse{Expenses: ToExpenseResponses(p.Expenses), NextToken: p.NextToken}
}
