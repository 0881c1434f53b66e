// Package ledger derives balances from a snapshot of household expenses.
//
// Every function is pure over the slice it is handed and recomputes from
// scratch, so the cost of a call is O(number of expenses). Expenses without
// participants are skipped rather than aborting a sum.
package ledger

import (
	"fmt"
	"time"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ShareOf returns one participant's equal fraction of the expense amount.
func ShareOf(e domain.Expense) (decimal.Decimal, error) {
	n := len(e.ParticipantIDs)
	if n == 0 {
		return decimal.Zero, fmt.Errorf("%w: expense %s", apperrors.ErrDegenerateExpense, e.ExpenseID)
	}
	return e.Amount.Div(decimal.NewFromInt(int64(n))), nil
}

// IsSettled reports whether debtor owes nothing on e. The payer never owes
// themselves and a missing payment entry counts as unpaid.
func IsSettled(e domain.Expense, debtor string) bool {
	return debtor == e.PayerID || e.HasReimbursed(debtor)
}

// OwedToMember sums the unpaid shares other participants owe m on the
// expenses m paid for.
func OwedToMember(expenses []domain.Expense, m string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.PayerID != m {
			continue
		}
		share, err := ShareOf(e)
		if err != nil {
			continue
		}
		for _, p := range e.ParticipantIDs {
			if p == m || IsSettled(e, p) {
				continue
			}
			total = total.Add(share)
		}
	}
	return total
}

// OwedByMember sums m's unpaid shares on expenses someone else paid for.
func OwedByMember(expenses []domain.Expense, m string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.PayerID == m || !e.IsParticipant(m) || IsSettled(e, m) {
			continue
		}
		share, err := ShareOf(e)
		if err != nil {
			continue
		}
		total = total.Add(share)
	}
	return total
}

// MonthlyTotal is the gross household spend for a calendar month, evaluated
// in each expense's own OccurredAt location. Settlement state is ignored.
func MonthlyTotal(expenses []domain.Expense, year int, month int) decimal.Decimal {
	return MonthlyTotalIn(expenses, year, month, nil)
}

// MonthlyTotalIn is MonthlyTotal with OccurredAt converted to loc first.
// A nil loc keeps each timestamp's own location.
func MonthlyTotalIn(expenses []domain.Expense, year int, month int, loc *time.Location) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		at := e.OccurredAt
		if loc != nil {
			at = at.In(loc)
		}
		if at.Year() == year && int(at.Month()) == month {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// UnsettledTotal sums every outstanding share across the snapshot, each
// counted once: the amount still to be reimbursed to payers.
func UnsettledTotal(expenses []domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		share, err := ShareOf(e)
		if err != nil {
			continue
		}
		for _, p := range e.ParticipantIDs {
			if !IsSettled(e, p) {
				total = total.Add(share)
			}
		}
	}
	return total
}

// Degenerate returns the IDs of expenses the engine cannot split.
func Degenerate(expenses []domain.Expense) []string {
	var ids []string
	for _, e := range expenses {
		if len(e.ParticipantIDs) == 0 {
			ids = append(ids, e.ExpenseID)
		}
	}
	return ids
}
