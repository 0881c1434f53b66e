package mapping

import (
	"database/sql"
	"strings"

	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	"github.com/SscSPs/roomie_ledger/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense.
// A blank description is stored as NULL.
func ToModelExpense(d domain.Expense) models.Expense {
	var desc sql.NullString
	if d.Description != nil && strings.TrimSpace(*d.Description) != "" {
		desc = sql.NullString{String: *d.Description, Valid: true}
	}
	status := make(map[string]bool, len(d.PaymentStatus))
	for k, v := range d.PaymentStatus {
		status[k] = v
	}
	return models.Expense{
		ExpenseID:      d.ExpenseID,
		HouseholdID:    d.HouseholdID,
		Title:          d.Title,
		Amount:         d.Amount,
		Description:    desc,
		OccurredAt:     d.OccurredAt,
		PayerID:        d.PayerID,
		ParticipantIDs: append([]string(nil), d.ParticipantIDs...),
		PaymentStatus:  status,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense.
// Status entries for the payer or for non-participants are dropped.
func ToDomainExpense(m models.Expense) domain.Expense {
	var desc *string
	if m.Description.Valid {
		s := m.Description.String
		desc = &s
	}
	participants := append([]string(nil), m.ParticipantIDs...)
	status := make(map[string]bool, len(m.PaymentStatus))
	for _, p := range participants {
		if p == m.PayerID {
			continue
		}
		if paid, ok := m.PaymentStatus[p]; ok {
			status[p] = paid
		}
	}
	return domain.Expense{
		ExpenseID:      m.ExpenseID,
		HouseholdID:    m.HouseholdID,
		Title:          m.Title,
		Amount:         m.Amount,
		Description:    desc,
		OccurredAt:     m.OccurredAt,
		PayerID:        m.PayerID,
		ParticipantIDs: participants,
		PaymentStatus:  status,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenses converts a slice of model Expenses
func ToDomainExpenses(ms []models.Expense) []domain.Expense {
	out := make([]domain.Expense, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToDomainExpense(m))
	}
	return out
}
