package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/contextkeys"
)

// Logger is the audit logging interface. Implementations must be safe
// for concurrent use.
type Logger interface {
	// Log records one event.
	Log(ctx context.Context, event *AuditEvent) error

	// LogDenied records an authorization denial.
	LogDenied(ctx context.Context, eventType EventType, userID, tenantID, reason string) error

	// LogMutation records a data mutation with optional before/after
	// details.
	LogMutation(ctx context.Context, eventType EventType, userID, tenantID string, resourceType ResourceType, resourceID string, changes *ChangeDetails, message string) error

	// LogHTTPRequest records a request captured by the middleware.
	LogHTTPRequest(ctx context.Context, r *http.Request, statusCode int, duration time.Duration) error

	// Close flushes buffered events and releases resources.
	Close() error
}

// WithLogger adds an audit logger to the context.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, contextkeys.AuditLoggerKey, logger)
}

// FromContext retrieves the audit logger, or a no-op logger when none
// is set so call sites never nil-check.
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(contextkeys.AuditLoggerKey).(Logger); ok {
		return logger
	}
	return noOpLogger{}
}

// WithRequestStartTime stamps the request start for duration tracking.
func WithRequestStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextkeys.RequestStartTimeKey, t)
}

// RequestStartTime retrieves the request start time, defaulting to now.
func RequestStartTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextkeys.RequestStartTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}

type noOpLogger struct{}

func (noOpLogger) Log(context.Context, *AuditEvent) error { return nil }
func (noOpLogger) LogDenied(context.Context, EventType, string, string, string) error {
	return nil
}
func (noOpLogger) LogMutation(context.Context, EventType, string, string, ResourceType, string, *ChangeDetails, string) error {
	return nil
}
func (noOpLogger) LogHTTPRequest(context.Context, *http.Request, int, time.Duration) error {
	return nil
}
func (noOpLogger) Close() error { return nil }
