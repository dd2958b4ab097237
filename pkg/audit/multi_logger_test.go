package audit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures events for assertions; err, when set, is
// returned from every method.
type recordingLogger struct {
	events   []*AuditEvent
	err      error
	closed   bool
	closeErr error
}

func (l *recordingLogger) Log(_ context.Context, event *AuditEvent) error {
	l.events = append(l.events, event)
	return l.err
}

func (l *recordingLogger) LogDenied(ctx context.Context, eventType EventType, userID, tenantID, reason string) error {
	return l.Log(ctx, &AuditEvent{EventType: eventType, Status: EventStatusDenied, UserID: userID, TenantID: tenantID, Message: reason})
}

func (l *recordingLogger) LogMutation(ctx context.Context, eventType EventType, userID, tenantID string, resourceType ResourceType, resourceID string, changes *ChangeDetails, message string) error {
	return l.Log(ctx, &AuditEvent{EventType: eventType, Status: EventStatusSuccess, UserID: userID, TenantID: tenantID, ResourceType: resourceType, ResourceID: resourceID, Changes: changes, Message: message})
}

func (l *recordingLogger) LogHTTPRequest(ctx context.Context, r *http.Request, statusCode int, _ time.Duration) error {
	return l.Log(ctx, &AuditEvent{EventType: EventTypeHTTPMutation, Method: r.Method, Path: r.URL.Path, StatusCode: statusCode})
}

func (l *recordingLogger) Close() error {
	l.closed = true
	return l.closeErr
}

func TestMultiLoggerFansOut(t *testing.T) {
	first := &recordingLogger{}
	second := &recordingLogger{}
	multi := NewMultiLogger(first, second)

	err := multi.LogDenied(t.Context(), EventTypeAuthDenied, "user-1", "tenant-1", "no membership")
	require.NoError(t, err)

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, EventTypeAuthDenied, first.events[0].EventType)
}

func TestMultiLoggerReturnsFirstErrorAfterTryingAll(t *testing.T) {
	failing := &recordingLogger{err: errors.New("disk full")}
	healthy := &recordingLogger{}
	multi := NewMultiLogger(failing, healthy)

	err := multi.Log(t.Context(), &AuditEvent{EventType: EventTypeTenantCreate, Status: EventStatusSuccess})
	assert.EqualError(t, err, "disk full")

	// The failure of one sink must not starve the other.
	assert.Len(t, healthy.events, 1)
}

func TestMultiLoggerClose(t *testing.T) {
	first := &recordingLogger{closeErr: errors.New("boom")}
	second := &recordingLogger{}
	multi := NewMultiLogger(first, second)

	err := multi.Close()
	assert.Error(t, err)
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}
