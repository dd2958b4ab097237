package audit

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// MultiLogger fans events out to several loggers, typically the
// database plus a file. All loggers receive every event; the first
// error is returned after all have been tried.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger wraps the given loggers.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (m *MultiLogger) each(fn func(Logger) error) error {
	var firstErr error
	for _, logger := range m.loggers {
		if err := fn(logger); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Log records one event on every logger.
func (m *MultiLogger) Log(ctx context.Context, event *AuditEvent) error {
	return m.each(func(l Logger) error { return l.Log(ctx, event) })
}

// LogDenied records an authorization denial on every logger.
func (m *MultiLogger) LogDenied(ctx context.Context, eventType EventType, userID, tenantID, reason string) error {
	return m.each(func(l Logger) error {
		return l.LogDenied(ctx, eventType, userID, tenantID, reason)
	})
}

// LogMutation records a data mutation on every logger.
func (m *MultiLogger) LogMutation(ctx context.Context, eventType EventType, userID, tenantID string, resourceType ResourceType, resourceID string, changes *ChangeDetails, message string) error {
	return m.each(func(l Logger) error {
		return l.LogMutation(ctx, eventType, userID, tenantID, resourceType, resourceID, changes, message)
	})
}

// LogHTTPRequest records a request on every logger.
func (m *MultiLogger) LogHTTPRequest(ctx context.Context, r *http.Request, statusCode int, duration time.Duration) error {
	return m.each(func(l Logger) error {
		return l.LogHTTPRequest(ctx, r, statusCode, duration)
	})
}

// Close closes every logger, reporting how many failed.
func (m *MultiLogger) Close() error {
	var failed int
	for _, logger := range m.loggers {
		if err := logger.Close(); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d audit loggers failed to close", failed)
	}
	return nil
}
