package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a purchase advanced by one member and shared equally among
// its participants.
type Expense struct {
	ExpenseID      string          `json:"id"`                    // Assigned by the store
	HouseholdID    string          `json:"householdId"`           // Immutable after creation
	Title          string          `json:"title"`                 // Non-blank
	Amount         decimal.Decimal `json:"amount"`                // Always > 0
	Description    *string         `json:"description,omitempty"` // Nil when absent
	OccurredAt     time.Time       `json:"occurredAt"`            // Chosen by the creator
	PayerID        string          `json:"payerId"`               // Immutable after creation
	ParticipantIDs []string        `json:"participantIds"`        // Frozen at creation
	PaymentStatus  map[string]bool `json:"paymentStatus"`         // debtor -> has reimbursed the payer
	AuditFields
}

// HasReimbursed reports whether debtor's entry in PaymentStatus is set.
// A missing entry means unpaid.
func (e Expense) HasReimbursed(debtor string) bool {
	if e.PaymentStatus == nil {
		return false
	}
	return e.PaymentStatus[debtor]
}

// IsParticipant reports whether memberID shares the cost of the expense.
func (e Expense) IsParticipant(memberID string) bool {
	for _, p := range e.ParticipantIDs {
		if p == memberID {
			return true
		}
	}
	return false
}

// WithPaymentStatus returns a copy of e whose PaymentStatus has debtor set
// to paid. The receiver's map is left untouched.
func (e Expense) WithPaymentStatus(debtor string, paid bool) Expense {
	status := make(map[string]bool, len(e.PaymentStatus)+1)
	for k, v := range e.PaymentStatus {
		status[k] = v
	}
	status[debtor] = paid
	e.PaymentStatus = status
	return e
}

// InitialPaymentStatus builds the map recorded on creation: one unpaid entry
// per participant other than the payer.
func InitialPaymentStatus(payerID string, participantIDs []string) map[string]bool {
	status := make(map[string]bool, len(participantIDs))
	for _, p := range participantIDs {
		if p == payerID {
			continue
		}
		status[p] = false
	}
	return status
}

// NewExpenseInput carries the fields supplied by the creator of an expense.
type NewExpenseInput struct {
	Title          string
	Amount         decimal.Decimal
	Description    string
	OccurredAt     time.Time
	PayerID        string
	ParticipantIDs []string
}
