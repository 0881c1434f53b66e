package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	"github.com/SscSPs/roomie_ledger/internal/core/ledger"
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/roomie_ledger/internal/core/ports/services"
	"github.com/SscSPs/roomie_ledger/internal/middleware"
)

type toggleKey struct {
	expenseID string
	debtorID  string
}

type pendingToggle struct {
	paid bool
	seq  uint64
}

// householdView holds the last good snapshot of one household and the ledger
// computed from it for one viewer. Toggles issued through the view are shown
// before the store confirms them.
type householdView struct {
	svc         *settlementService
	householdID string
	viewerID    string
	logger      *slog.Logger

	mu       sync.Mutex
	state    portssvc.ViewState
	err      error
	base     []domain.Expense
	members  []domain.Member
	overlay  map[toggleKey]pendingToggle
	seq      uint64
	version  uint64
	snapshot portssvc.ViewSnapshot
	closed   bool

	changes   chan struct{}
	ready     chan struct{}
	readyOnce sync.Once

	sub       portsrepo.ExpenseSubscription
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func newHouseholdView(svc *settlementService, householdID, viewerID string, logger *slog.Logger) *householdView {
	v := &householdView{
		svc:         svc,
		householdID: householdID,
		viewerID:    viewerID,
		logger:      logger.With(slog.String("household_id", householdID), slog.String("viewer_id", viewerID)),
		state:       portssvc.ViewIdle,
		overlay:     make(map[toggleKey]pendingToggle),
		changes:     make(chan struct{}, 1),
		ready:       make(chan struct{}),
		done:        make(chan struct{}),
	}
	v.snapshot = v.buildLocked()
	return v
}

func (v *householdView) setLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = portssvc.ViewLoading
	v.recomputeLocked()
}

func (v *householdView) start(ctx context.Context, sub portsrepo.ExpenseSubscription) {
	runCtx, cancel := context.WithCancel(middleware.WithLogger(ctx, v.logger))
	v.sub = sub
	v.cancel = cancel
	go v.run(runCtx)
}

func (v *householdView) run(ctx context.Context) {
	defer close(v.done)
	for snap := range v.sub.Snapshots() {
		if snap.Err != nil {
			v.fail(snap.Err)
			return
		}
		members := v.svc.loadMembers(ctx, v.householdID)
		v.apply(snap.Expenses, members)
	}
}

func (v *householdView) apply(expenses []domain.Expense, members []domain.Member) {
	v.mu.Lock()
	v.base = expenses
	if members != nil {
		v.members = members
	}
	if v.state != portssvc.ViewFailed {
		v.state = portssvc.ViewReady
	}
	v.recomputeLocked()
	skipped := v.snapshot.Summary.Skipped
	v.mu.Unlock()

	if len(skipped) > 0 {
		v.logger.Warn("skipped degenerate expenses", slog.Any("expense_ids", skipped))
	}
	v.markReady()
}

func (v *householdView) fail(err error) {
	v.mu.Lock()
	v.state = portssvc.ViewFailed
	v.err = fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	v.recomputeLocked()
	v.mu.Unlock()

	v.logger.Error("household view failed", slog.String("error", err.Error()))
	v.markReady()
}

func (v *householdView) markReady() {
	v.readyOnce.Do(func() { close(v.ready) })
}

// recomputeLocked rebuilds the snapshot and signals listeners. v.mu must be held.
func (v *householdView) recomputeLocked() {
	v.version++
	v.snapshot = v.buildLocked()
	if v.closed {
		return
	}
	select {
	case v.changes <- struct{}{}:
	default:
	}
}

func (v *householdView) buildLocked() portssvc.ViewSnapshot {
	effective := make([]domain.Expense, len(v.base))
	pending := make(map[string]bool, len(v.overlay))
	copy(effective, v.base)
	for i, e := range effective {
		for k, t := range v.overlay {
			if k.expenseID == e.ExpenseID {
				effective[i] = effective[i].WithPaymentStatus(k.debtorID, t.paid)
				pending[e.ExpenseID] = true
			}
		}
	}

	names := domain.MemberNames(v.members)
	lines := make([]portssvc.ExpenseLine, 0, len(effective))
	for _, e := range effective {
		lines = append(lines, decorate(e, v.viewerID, names, pending[e.ExpenseID]))
	}

	period := ledger.PeriodOf(v.svc.opts.Now(), v.svc.opts.Location)
	return portssvc.ViewSnapshot{
		HouseholdID: v.householdID,
		ViewerID:    v.viewerID,
		State:       v.state,
		Err:         v.err,
		Version:     v.version,
		Expenses:    lines,
		Summary:     ledger.Summarize(effective, v.viewerID, period),
		Balances:    ledger.MemberBalances(effective, v.members, period),
		Members:     append([]domain.Member(nil), v.members...),
		UpdatedAt:   v.svc.opts.Now().UTC(),
	}
}

// decorate attaches the payer label and the viewer's position to an expense.
func decorate(e domain.Expense, viewerID string, names map[string]string, pending bool) portssvc.ExpenseLine {
	payerName, ok := names[e.PayerID]
	if !ok || payerName == "" {
		payerName = e.PayerID
	}
	return portssvc.ExpenseLine{
		Expense:   e,
		PayerName: payerName,
		Viewer:    ledger.ViewerStatusOf(e, viewerID),
		Debtors:   ledger.Debtors(e),
		Pending:   pending,
	}
}

func (v *householdView) Snapshot() portssvc.ViewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}

func (v *householdView) Changes() <-chan struct{} {
	return v.changes
}

func (v *householdView) Ready(ctx context.Context) error {
	select {
	case <-v.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.state == portssvc.ViewFailed:
		return v.err
	case v.state != portssvc.ViewReady:
		return ErrViewClosed
	}
	return nil
}

// SetPaymentStatus shows the toggle at once and writes it through. When the
// write fails the overlay is dropped, unless a newer toggle replaced it.
func (v *householdView) SetPaymentStatus(ctx context.Context, expenseID, debtorID string, paid bool) error {
	key := toggleKey{expenseID: expenseID, debtorID: debtorID}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	v.seq++
	seq := v.seq
	v.overlay[key] = pendingToggle{paid: paid, seq: seq}
	v.recomputeLocked()
	v.mu.Unlock()

	err := v.svc.SetPaymentStatus(ctx, v.householdID, expenseID, debtorID, paid)

	v.mu.Lock()
	defer v.mu.Unlock()
	if current, ok := v.overlay[key]; ok && current.seq == seq {
		delete(v.overlay, key)
		if err == nil {
			// keep the confirmed value until the next snapshot carries it
			for i, e := range v.base {
				if e.ExpenseID == expenseID {
					patched := make([]domain.Expense, len(v.base))
					copy(patched, v.base)
					patched[i] = e.WithPaymentStatus(debtorID, paid)
					v.base = patched
					break
				}
			}
		}
		v.recomputeLocked()
	}
	return err
}

func (v *householdView) Close() error {
	var err error
	v.closeOnce.Do(func() {
		if v.cancel != nil {
			v.cancel()
		}
		if v.sub != nil {
			err = v.sub.Close()
			<-v.done
		}
		v.mu.Lock()
		v.closed = true
		close(v.changes)
		v.mu.Unlock()
		v.markReady()
		v.logger.Debug("household view closed")
	})
	return err
}
