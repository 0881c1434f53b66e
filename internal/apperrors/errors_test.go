package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("create expense: %w", apperrors.NewValidationError("title", "must not be blank"))

	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var vErr *apperrors.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "title", vErr.Field)
	assert.Contains(t, err.Error(), "title must not be blank")
}

func TestAppError_Unwrap(t *testing.T) {
	err := apperrors.NewAppError(503, "failed to insert expense", apperrors.ErrStoreUnavailable)

	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.Equal(t, "failed to insert expense: expense store unavailable", err.Error())

	bare := apperrors.NewAppError(500, "boom", nil)
	assert.Equal(t, "boom", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}
