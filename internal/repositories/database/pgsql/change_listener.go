package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/roomie_ledger/internal/middleware"
	"github.com/SscSPs/roomie_ledger/internal/platform/fanout"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChangeChannel is the NOTIFY channel written by the expenses trigger.
// The payload is the household ID.
const ChangeChannel = "expense_changes"

const (
	minReconnectDelay = 500 * time.Millisecond
	maxReconnectDelay = 30 * time.Second
)

// ChangeListener holds one LISTEN connection and relays notifications to
// the hub. When the connection drops, every open subscription is failed and
// the listener reconnects for new ones.
type ChangeListener struct {
	pool *pgxpool.Pool
	hub  *fanout.Hub
}

// NewChangeListener creates a listener relaying to hub.
func NewChangeListener(pool *pgxpool.Pool, hub *fanout.Hub) *ChangeListener {
	return &ChangeListener{pool: pool, hub: hub}
}

// Run blocks until ctx is cancelled.
func (l *ChangeListener) Run(ctx context.Context) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("component", "change_listener"))
	delay := minReconnectDelay

	for {
		connected, err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		logger.Warn("Expense change feed interrupted", slog.String("error", err.Error()))
		l.hub.FailAll(err)

		if connected {
			delay = minReconnectDelay
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, maxReconnectDelay)
	}
}

// listen reports whether LISTEN succeeded before the returned error.
func (l *ChangeListener) listen(ctx context.Context) (bool, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return false, fmt.Errorf("listen %s: %w", ChangeChannel, err)
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Listening for expense changes", slog.String("channel", ChangeChannel))

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return true, err
			}
			// the connection state is unknown after a failed wait
			conn.Conn().Close(context.Background())
			return true, fmt.Errorf("wait for notification: %w", err)
		}
		l.hub.Notify(n.Payload)
	}
}
