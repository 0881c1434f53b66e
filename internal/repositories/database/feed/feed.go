// Package feed turns change signals into level-triggered expense snapshots.
//
// Each wake-up reloads the whole household, so the cost per change is
// O(number of household expenses).
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/roomie_ledger/internal/middleware"
	"github.com/SscSPs/roomie_ledger/internal/platform/fanout"
)

// Loader reads the current expense set of one household.
type Loader func(ctx context.Context, householdID string) ([]domain.Expense, error)

// Subscription implements portsrepo.ExpenseSubscription on top of a fanout listener.
type Subscription struct {
	householdID string
	out         chan portsrepo.ExpenseSnapshot
	cancel      context.CancelFunc
	done        chan struct{}
	closeOnce   sync.Once
}

var _ portsrepo.ExpenseSubscription = (*Subscription)(nil)

// Open registers on hub for householdID and starts delivering snapshots.
// The subscription lives until Close is called or ctx is cancelled.
func Open(ctx context.Context, hub *fanout.Hub, householdID string, load Loader) *Subscription {
	runCtx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		householdID: householdID,
		out:         make(chan portsrepo.ExpenseSnapshot, 1),
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	listener := hub.Register(householdID)
	go s.run(runCtx, listener, load)
	return s
}

// Snapshots returns the delivery channel.
func (s *Subscription) Snapshots() <-chan portsrepo.ExpenseSnapshot {
	return s.out
}

// Close stops the feed and waits for the channel to be closed.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}

func (s *Subscription) run(ctx context.Context, listener *fanout.Listener, load Loader) {
	defer close(s.done)
	defer close(s.out)
	defer listener.Close()

	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("household_id", s.householdID))

	if !s.deliver(ctx, load) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-listener.Failed():
			err := fmt.Errorf("%w: change feed lost: %v", apperrors.ErrStoreUnavailable, listener.Err())
			logger.Warn("Expense subscription failed", slog.String("error", err.Error()))
			s.send(ctx, portsrepo.ExpenseSnapshot{HouseholdID: s.householdID, Err: err})
			return
		case <-listener.C():
			if !s.deliver(ctx, load) {
				return
			}
		}
	}
}

// deliver loads and sends one snapshot. It reports whether the feed should continue.
func (s *Subscription) deliver(ctx context.Context, load Loader) bool {
	expenses, err := load(ctx, s.householdID)
	if ctx.Err() != nil {
		return false
	}
	snap := portsrepo.ExpenseSnapshot{HouseholdID: s.householdID, Expenses: expenses}
	if err != nil {
		snap = portsrepo.ExpenseSnapshot{HouseholdID: s.householdID, Err: err}
	}
	if !s.send(ctx, snap) {
		return false
	}
	return err == nil
}

func (s *Subscription) send(ctx context.Context, snap portsrepo.ExpenseSnapshot) bool {
	select {
	case s.out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
