package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/SscSPs/roomie_ledger/internal/middleware"
)

// BaseService provides the logging and actor helpers shared by services.
type BaseService struct {
	component string
}

func newBaseService(component string) BaseService {
	return BaseService{component: component}
}

// GetLogger returns the request logger from ctx tagged with the service
// component and, when ctx carries a recording span, its trace id.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if s.component != "" {
		logger = logger.With(slog.String("component", s.component))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		logger = logger.With(slog.String("trace_id", sc.TraceID().String()))
	}
	return logger
}

func (s *BaseService) LogError(ctx context.Context, err error, msg string, attrs ...any) {
	s.GetLogger(ctx).Error(msg, append([]any{slog.String("error", err.Error())}, attrs...)...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, attrs ...any) {
	s.GetLogger(ctx).Info(msg, attrs...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, attrs ...any) {
	s.GetLogger(ctx).Debug(msg, attrs...)
}

// ActorID returns the authenticated member acting in ctx, if any.
func (s *BaseService) ActorID(ctx context.Context) (string, bool) {
	return middleware.GetMemberIDFromCtx(ctx)
}
