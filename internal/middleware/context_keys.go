package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is used for values stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	memberIDKey  = contextKey("memberID")
)

// WithMemberID returns a copy of ctx carrying the authenticated member ID.
func WithMemberID(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, memberIDKey, memberID)
}

// GetMemberIDFromCtx retrieves the authenticated member ID from a standard context.
func GetMemberIDFromCtx(ctx context.Context) (string, bool) {
	memberID, ok := ctx.Value(memberIDKey).(string)
	if !ok || memberID == "" {
		return "", false
	}
	return memberID, true
}

// GetMemberIDFromContext retrieves the authenticated member ID from the Gin context.
// It returns the member ID and a boolean indicating if it was found.
func GetMemberIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(memberIDKey)); exists {
		memberID, ok := v.(string)
		return memberID, ok && memberID != ""
	}
	// check in the request context as well
	return GetMemberIDFromCtx(c.Request.Context())
}
