package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the persisted shape of an expense record.
type Expense struct {
	ExpenseID      string          `json:"id"`
	HouseholdID    string          `json:"householdId"`
	Title          string          `json:"title"`
	Amount         decimal.Decimal `json:"amount"`
	Description    sql.NullString  `json:"description"`
	OccurredAt     time.Time       `json:"occurredAt"`
	PayerID        string          `json:"payerId"`
	ParticipantIDs []string        `json:"participantIds"`
	PaymentStatus  map[string]bool `json:"paymentStatus"` // key = participantId, value = hasReimbursed
	AuditFields
}
