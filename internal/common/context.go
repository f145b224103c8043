package common

import (
	"context"
	"log/slog"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyTraceID     contextKey = "trace_id"
	ContextKeyServiceType contextKey = "service_type"
)

// WithTraceID adds a pipeline trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ContextKeyTraceID, traceID)
}

// TraceIDFromContext extracts the trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(ContextKeyTraceID).(string); ok {
		return traceID
	}
	return ""
}

// WithServiceType records the deed/service label for the current run
func WithServiceType(ctx context.Context, service string) context.Context {
	return context.WithValue(ctx, ContextKeyServiceType, service)
}

// ServiceTypeFromContext extracts the deed/service label from context
func ServiceTypeFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ContextKeyServiceType).(string); ok {
		return s
	}
	return ""
}

// LoggerFrom returns logger enriched with the trace id and service label carried by ctx.
func LoggerFrom(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := TraceIDFromContext(ctx); id != "" {
		logger = logger.With("trace_id", id)
	}
	if s := ServiceTypeFromContext(ctx); s != "" {
		logger = logger.With("service", s)
	}
	return logger
}
