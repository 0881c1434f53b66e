package pgsql

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantIs   error
		wantCode int
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, wantIs: apperrors.ErrWriteRejected, wantCode: 409},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, wantIs: apperrors.ErrWriteRejected, wantCode: 409},
		{name: "connection failure", err: &pgconn.PgError{Code: "08006"}, wantIs: apperrors.ErrStoreUnavailable, wantCode: 503},
		{name: "deadline", err: context.DeadlineExceeded, wantIs: apperrors.ErrStoreUnavailable, wantCode: 503},
		{name: "plain error", err: errors.New("boom"), wantIs: apperrors.ErrStoreUnavailable, wantCode: 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeError("failed", tt.err)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.ErrorIs(t, err, tt.err)

			var appErr *apperrors.AppError
			if assert.ErrorAs(t, err, &appErr) {
				assert.Equal(t, tt.wantCode, appErr.Code)
			}
		})
	}
}
