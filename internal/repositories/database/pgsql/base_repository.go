package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, unavailable("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return writeError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return unavailable("failed to rollback transaction", err)
	}
	return nil
}

func unavailable(msg string, err error) error {
	return apperrors.NewAppError(http.StatusServiceUnavailable, msg, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err))
}

func rejected(code int, msg string) error {
	return apperrors.NewAppError(code, msg, apperrors.ErrWriteRejected)
}

// writeError classifies a failed write. Constraint violations (class 23)
// and check failures are rejections; anything else means the store could
// not be reached.
func writeError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
		return apperrors.NewAppError(http.StatusConflict, msg, fmt.Errorf("%w: %w", apperrors.ErrWriteRejected, err))
	}
	return unavailable(msg, err)
}
