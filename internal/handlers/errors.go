package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrWriteRejected):
		if errors.As(err, &appErr) && (appErr.Code == http.StatusForbidden || appErr.Code == http.StatusConflict) {
			return appErr.Code
		}
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body for err. Messages of server-side
// failures are replaced by fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	body := gin.H{"error": fallback}

	var vErr *apperrors.ValidationError
	switch {
	case errors.As(err, &vErr):
		logger.Warn("Validation error", slog.String("field", vErr.Field), slog.String("reason", vErr.Reason))
		body = gin.H{"error": vErr.Error(), "field": vErr.Field}
	case status >= http.StatusInternalServerError:
		logger.Error(fallback, slog.String("error", err.Error()))
	default:
		logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
		body = gin.H{"error": err.Error()}
	}
	c.JSON(status, body)
}

// respondBindError reports a request that could not be bound. A
// validator failure names the offending field.
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "field": verrs[0].Field(), "rule": verrs[0].Tag()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
}
