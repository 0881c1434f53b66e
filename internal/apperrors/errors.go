package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrStoreUnavailable indicates that the expense store could not be reached
// for a subscription or a write.
var ErrStoreUnavailable = errors.New("expense store unavailable")

// ErrWriteRejected indicates that the store refused a create or a payment
// toggle after local validation passed (authorization, constraint or
// transient failure).
var ErrWriteRejected = errors.New("write rejected by store")

// ErrDegenerateExpense indicates an expense without participants reached
// the ledger engine.
var ErrDegenerateExpense = errors.New("degenerate expense: no participants")

// ErrInternal is returned when an unexpected condition prevents an operation.
var ErrInternal = errors.New("internal error")

// ValidationError names the first input field that failed a local pre-check.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AppError carries a status code alongside the wrapped cause.
// Repositories use it to tag driver errors before they cross a port.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}
