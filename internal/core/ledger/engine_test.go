package ledger_test

import (
	"testing"
	"time"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	"github.com/SscSPs/roomie_ledger/internal/core/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "member-a"
	bob   = "member-b"
	carol = "member-c"
)

func newExpense(id string, amount int64, payer string, participants ...string) domain.Expense {
	return domain.Expense{
		ExpenseID:      id,
		HouseholdID:    "piso-1",
		Title:          "expense " + id,
		Amount:         decimal.NewFromInt(amount),
		OccurredAt:     time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC),
		PayerID:        payer,
		ParticipantIDs: participants,
		PaymentStatus:  domain.InitialPaymentStatus(payer, participants),
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), append([]interface{}{"want %s got %s", want, got.String()}, msgAndArgs...)...)
}

func TestShareOf(t *testing.T) {
	tests := []struct {
		name    string
		expense domain.Expense
		want    string
		wantErr error
	}{
		{name: "even split", expense: newExpense("e1", 30, alice, alice, bob, carol), want: "10"},
		{name: "self expense", expense: newExpense("e2", 12, alice, alice), want: "12"},
		{name: "payer not a participant", expense: newExpense("e3", 20, alice, bob, carol), want: "10"},
		{name: "no participants", expense: newExpense("e4", 20, alice), wantErr: apperrors.ErrDegenerateExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.ShareOf(tt.expense)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestShareOf_SplitCompleteness(t *testing.T) {
	tolerance := decimal.New(1, -12)
	for _, amount := range []string{"10", "30", "0.01", "99.99", "1234.567"} {
		for n := 1; n <= 7; n++ {
			participants := make([]string, n)
			for i := range participants {
				participants[i] = string(rune('a' + i))
			}
			e := newExpense("split", 1, "a", participants...)
			e.Amount = decimal.RequireFromString(amount)

			share, err := ledger.ShareOf(e)
			require.NoError(t, err)

			sum := decimal.Zero
			for range participants {
				sum = sum.Add(share)
			}
			assert.True(t, sum.Sub(e.Amount).Abs().LessThanOrEqual(tolerance), "amount %s split %d ways sums to %s", amount, n, sum)
		}
	}
}

func TestIsSettled(t *testing.T) {
	e := newExpense("e1", 30, alice, alice, bob, carol)
	e.PaymentStatus[bob] = true
	delete(e.PaymentStatus, carol)

	assert.True(t, ledger.IsSettled(e, alice), "payer is always settled")
	assert.True(t, ledger.IsSettled(e, bob))
	assert.False(t, ledger.IsSettled(e, carol), "absent entry is unpaid")

	e.PaymentStatus = nil
	assert.True(t, ledger.IsSettled(e, alice))
	assert.False(t, ledger.IsSettled(e, bob))
}

func TestScenario_ThreeWaySplit(t *testing.T) {
	e := newExpense("e1", 30, alice, alice, bob, carol)
	snapshot := []domain.Expense{e}

	share, err := ledger.ShareOf(e)
	require.NoError(t, err)
	assertDecimal(t, "10", share)
	assertDecimal(t, "20", ledger.OwedToMember(snapshot, alice))
	assertDecimal(t, "10", ledger.OwedByMember(snapshot, bob))
	assertDecimal(t, "10", ledger.OwedByMember(snapshot, carol))
	assertDecimal(t, "0", ledger.OwedByMember(snapshot, alice))

	paid := []domain.Expense{e.WithPaymentStatus(bob, true)}
	assertDecimal(t, "10", ledger.OwedToMember(paid, alice))
	assertDecimal(t, "0", ledger.OwedByMember(paid, bob))
	assertDecimal(t, "10", ledger.OwedByMember(paid, carol))

	// original snapshot untouched by WithPaymentStatus
	assertDecimal(t, "20", ledger.OwedToMember(snapshot, alice))
}

func TestScenario_SelfExpense(t *testing.T) {
	e := newExpense("self", 45, alice, alice)

	assert.Empty(t, e.PaymentStatus)
	assertDecimal(t, "0", ledger.OwedToMember([]domain.Expense{e}, alice))
	assertDecimal(t, "0", ledger.OwedByMember([]domain.Expense{e}, alice))
	assert.Empty(t, ledger.Debtors(e))
}

func TestScenario_EmptySnapshot(t *testing.T) {
	for _, snapshot := range [][]domain.Expense{nil, {}} {
		assertDecimal(t, "0", ledger.OwedToMember(snapshot, alice))
		assertDecimal(t, "0", ledger.OwedByMember(snapshot, alice))
		assertDecimal(t, "0", ledger.MonthlyTotal(snapshot, 2024, 5))
		assertDecimal(t, "0", ledger.UnsettledTotal(snapshot))
	}
}

func householdSnapshot() []domain.Expense {
	rent := newExpense("rent", 900, alice, alice, bob, carol)
	rent.PaymentStatus[carol] = true
	groceries := newExpense("groceries", 47, bob, alice, bob, carol)
	internet := newExpense("internet", 35, carol, bob, carol)
	internet.PaymentStatus[bob] = true
	coffee := newExpense("coffee", 4, alice, alice)
	lazy := newExpense("lazy", 60, bob, alice, bob)
	lazy.PaymentStatus = map[string]bool{}
	return []domain.Expense{rent, groceries, internet, coffee, lazy}
}

func TestZeroSumAcrossMembers(t *testing.T) {
	snapshot := householdSnapshot()

	owedTo := decimal.Zero
	owedBy := decimal.Zero
	for _, m := range []string{alice, bob, carol} {
		owedTo = owedTo.Add(ledger.OwedToMember(snapshot, m))
		owedBy = owedBy.Add(ledger.OwedByMember(snapshot, m))
	}

	unsettled := ledger.UnsettledTotal(snapshot)
	assert.True(t, owedTo.Equal(unsettled), "owed-to %s vs unsettled %s", owedTo, unsettled)
	assert.True(t, owedBy.Equal(unsettled), "owed-by %s vs unsettled %s", owedBy, unsettled)
	assert.True(t, owedTo.Sub(owedBy).IsZero())
}

func TestOrderIndependenceAndIdempotence(t *testing.T) {
	snapshot := householdSnapshot()
	reversed := make([]domain.Expense, len(snapshot))
	for i, e := range snapshot {
		reversed[len(snapshot)-1-i] = e
	}

	for _, m := range []string{alice, bob, carol} {
		first := ledger.OwedToMember(snapshot, m)
		assert.True(t, first.Equal(ledger.OwedToMember(snapshot, m)))
		assert.True(t, first.Equal(ledger.OwedToMember(reversed, m)))
		assert.True(t, ledger.OwedByMember(snapshot, m).Equal(ledger.OwedByMember(reversed, m)))
	}
	assert.True(t, ledger.MonthlyTotal(snapshot, 2024, 5).Equal(ledger.MonthlyTotal(reversed, 2024, 5)))
}

func TestSetPaidTwiceAndRoundTrip(t *testing.T) {
	e := newExpense("e1", 30, alice, alice, bob, carol)
	before := []domain.Expense{e}

	once := []domain.Expense{e.WithPaymentStatus(bob, true)}
	twice := []domain.Expense{once[0].WithPaymentStatus(bob, true)}
	assert.True(t, ledger.OwedToMember(once, alice).Equal(ledger.OwedToMember(twice, alice)))
	assert.True(t, ledger.OwedByMember(once, bob).Equal(ledger.OwedByMember(twice, bob)))

	back := []domain.Expense{once[0].WithPaymentStatus(bob, false)}
	for _, m := range []string{alice, bob, carol} {
		assert.True(t, ledger.OwedToMember(before, m).Equal(ledger.OwedToMember(back, m)), "owed-to %s", m)
		assert.True(t, ledger.OwedByMember(before, m).Equal(ledger.OwedByMember(back, m)), "owed-by %s", m)
	}
}

func TestDegenerateExpenseIsSkipped(t *testing.T) {
	broken := newExpense("broken", 500, alice)
	broken.PaymentStatus = map[string]bool{bob: false}
	snapshot := []domain.Expense{newExpense("e1", 30, alice, alice, bob, carol), broken}

	assertDecimal(t, "20", ledger.OwedToMember(snapshot, alice))
	assertDecimal(t, "10", ledger.OwedByMember(snapshot, bob))
	assertDecimal(t, "20", ledger.UnsettledTotal(snapshot))
	assert.Equal(t, []string{"broken"}, ledger.Degenerate(snapshot))
	assert.Nil(t, ledger.Debtors(broken))

	// gross spend still counts the record
	assertDecimal(t, "530", ledger.MonthlyTotal(snapshot, 2024, 5))
}

func TestMonthlyTotal(t *testing.T) {
	may := newExpense("may", 30, alice, alice, bob)
	paidMay := newExpense("paid-may", 20, bob, alice, bob).WithPaymentStatus(alice, true)
	june := newExpense("june", 100, alice, alice, bob)
	june.OccurredAt = time.Date(2024, time.June, 1, 0, 30, 0, 0, time.UTC)
	lastYear := newExpense("last-year", 7, alice, alice)
	lastYear.OccurredAt = time.Date(2023, time.May, 10, 0, 0, 0, 0, time.UTC)
	snapshot := []domain.Expense{may, paidMay, june, lastYear}

	assertDecimal(t, "50", ledger.MonthlyTotal(snapshot, 2024, 5))
	assertDecimal(t, "100", ledger.MonthlyTotal(snapshot, 2024, 6))
	assertDecimal(t, "7", ledger.MonthlyTotal(snapshot, 2023, 5))
	assertDecimal(t, "0", ledger.MonthlyTotal(snapshot, 2024, 7))

	// 00:30 UTC on June 1st is still May 31st in New York
	ny := time.FixedZone("EST", -5*60*60)
	assertDecimal(t, "150", ledger.MonthlyTotalIn(snapshot, 2024, 5, ny))
}
