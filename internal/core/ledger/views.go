package ledger

import (
	"time"

	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Period selects the calendar month used for gross spend.
type Period struct {
	Year     int
	Month    time.Month
	Location *time.Location // nil keeps each expense's own location
}

// PeriodOf returns the month containing t, evaluated in loc.
func PeriodOf(t time.Time, loc *time.Location) Period {
	if loc != nil {
		t = t.In(loc)
	}
	return Period{Year: t.Year(), Month: t.Month(), Location: loc}
}

// Summary is the set of balances one member sees for a household snapshot.
type Summary struct {
	MemberID     string          `json:"memberId"`
	OwedToMember decimal.Decimal `json:"owedToMember"`
	OwedByMember decimal.Decimal `json:"owedByMember"`
	Net          decimal.Decimal `json:"net"` // positive: owed, negative: owes
	MonthlyTotal decimal.Decimal `json:"monthlyTotal"`
	Skipped      []string        `json:"-"` // degenerate expense IDs left out of the sums
}

// Summarize computes every balance a member view needs in one pass over
// the snapshot.
func Summarize(expenses []domain.Expense, memberID string, p Period) Summary {
	owedTo := OwedToMember(expenses, memberID)
	owedBy := OwedByMember(expenses, memberID)
	return Summary{
		MemberID:     memberID,
		OwedToMember: owedTo,
		OwedByMember: owedBy,
		Net:          owedTo.Sub(owedBy),
		MonthlyTotal: MonthlyTotalIn(expenses, p.Year, int(p.Month), p.Location),
		Skipped:      Degenerate(expenses),
	}
}

// MemberBalances returns one Summary per member, in membership order.
func MemberBalances(expenses []domain.Expense, members []domain.Member, p Period) []Summary {
	out := make([]Summary, 0, len(members))
	for _, m := range members {
		out = append(out, Summarize(expenses, m.MemberID, p))
	}
	return out
}

// Debtor is one participant other than the payer and the state of their share.
type Debtor struct {
	MemberID string          `json:"memberId"`
	Share    decimal.Decimal `json:"share"`
	Paid     bool            `json:"paid"`
}

// Debtors lists the participants who owe the payer a share of e, in
// participant order. A degenerate expense has no debtors.
func Debtors(e domain.Expense) []Debtor {
	share, err := ShareOf(e)
	if err != nil {
		return nil
	}
	out := make([]Debtor, 0, len(e.ParticipantIDs))
	for _, p := range e.ParticipantIDs {
		if p == e.PayerID {
			continue
		}
		out = append(out, Debtor{MemberID: p, Share: share, Paid: e.HasReimbursed(p)})
	}
	return out
}

// ViewerRole is how a member relates to an expense.
type ViewerRole string

const (
	RolePayer      ViewerRole = "PAYER"
	RoleDebtor     ViewerRole = "DEBTOR"
	RoleUninvolved ViewerRole = "UNINVOLVED"
)

// ViewerStatus is the per-expense line shown to one member.
type ViewerStatus struct {
	Role              ViewerRole      `json:"role"`
	Share             decimal.Decimal `json:"share"`
	OpenDebtors       int             `json:"openDebtors"`       // payer only
	SharePaid         bool            `json:"sharePaid"`         // debtor only
	CanManagePayments bool            `json:"canManagePayments"` // payer with other participants
}

// ViewerStatusOf describes e from memberID's point of view.
func ViewerStatusOf(e domain.Expense, memberID string) ViewerStatus {
	share, err := ShareOf(e)
	if err != nil {
		share = decimal.Zero
	}

	switch {
	case e.PayerID == memberID:
		status := ViewerStatus{Role: RolePayer, Share: share}
		for _, d := range Debtors(e) {
			status.CanManagePayments = true
			if !d.Paid {
				status.OpenDebtors++
			}
		}
		return status
	case e.IsParticipant(memberID):
		return ViewerStatus{Role: RoleDebtor, Share: share, SharePaid: IsSettled(e, memberID)}
	default:
		return ViewerStatus{Role: RoleUninvolved, Share: share}
	}
}
