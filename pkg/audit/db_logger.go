package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/contextkeys"
)

// DBLogger writes audit events to the audit_logs table.
type DBLogger struct {
	db *sql.DB
}

// NewDBLogger creates a database-backed audit logger and ensures the
// table exists.
func NewDBLogger(db *sql.DB) (*DBLogger, error) {
	l := &DBLogger{db: db}
	if err := l.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure audit table: %w", err)
	}
	return l, nil
}

func (l *DBLogger) ensureTable() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		event_type VARCHAR(100) NOT NULL,
		status VARCHAR(20) NOT NULL,
		user_id VARCHAR(64),
		tenant_id VARCHAR(64),
		resource_type VARCHAR(50),
		resource_id VARCHAR(128),
		resource_name VARCHAR(255),
		ip_address VARCHAR(64),
		user_agent TEXT,
		request_id VARCHAR(64),
		method VARCHAR(10),
		path TEXT,
		status_code INTEGER,
		message TEXT,
		error_message TEXT,
		metadata JSONB,
		changes JSONB
	);
	CREATE INDEX IF NOT EXISTS idx_audit_logs_tenant ON audit_logs(tenant_id, timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_audit_logs_event_type ON audit_logs(event_type);
	CREATE INDEX IF NOT EXISTS idx_audit_logs_user ON audit_logs(user_id);`

	_, err := l.db.Exec(schema)
	return err
}

// Log inserts one event.
func (l *DBLogger) Log(ctx context.Context, event *AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = contextkeys.RequestID(ctx)
	}

	var metadataJSON, changesJSON []byte
	var err error
	if event.Metadata != nil {
		if metadataJSON, err = json.Marshal(event.Metadata); err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}
	if event.Changes != nil {
		if changesJSON, err = json.Marshal(event.Changes); err != nil {
			return fmt.Errorf("failed to marshal changes: %w", err)
		}
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO audit_logs (
			timestamp, event_type, status, user_id, tenant_id,
			resource_type, resource_id, resource_name,
			ip_address, user_agent, request_id, method, path, status_code,
			message, error_message, metadata, changes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		event.Timestamp, event.EventType, event.Status,
		nullIfEmpty(event.UserID), nullIfEmpty(event.TenantID),
		nullIfEmpty(string(event.ResourceType)), nullIfEmpty(event.ResourceID), nullIfEmpty(event.ResourceName),
		nullIfEmpty(event.IPAddress), nullIfEmpty(event.UserAgent), nullIfEmpty(event.RequestID),
		nullIfEmpty(event.Method), nullIfEmpty(event.Path), event.StatusCode,
		nullIfEmpty(event.Message), nullIfEmpty(event.ErrorMessage),
		nullBytes(metadataJSON), nullBytes(changesJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

// LogDenied records an authorization denial.
func (l *DBLogger) LogDenied(ctx context.Context, eventType EventType, userID, tenantID, reason string) error {
	return l.Log(ctx, &AuditEvent{
		EventType: eventType,
		Status:    EventStatusDenied,
		UserID:    userID,
		TenantID:  tenantID,
		Message:   reason,
	})
}

// LogMutation records a data mutation.
func (l *DBLogger) LogMutation(ctx context.Context, eventType EventType, userID, tenantID string, resourceType ResourceType, resourceID string, changes *ChangeDetails, message string) error {
	return l.Log(ctx, &AuditEvent{
		EventType:    eventType,
		Status:       EventStatusSuccess,
		UserID:       userID,
		TenantID:     tenantID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      changes,
		Message:      message,
	})
}

// LogHTTPRequest records a middleware-captured request.
func (l *DBLogger) LogHTTPRequest(ctx context.Context, r *http.Request, statusCode int, duration time.Duration) error {
	status := EventStatusSuccess
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		status = EventStatusDenied
	} else if statusCode >= 400 {
		status = EventStatusFailure
	}

	return l.Log(ctx, &AuditEvent{
		EventType:  EventTypeHTTPMutation,
		Status:     status,
		UserID:     contextkeys.UserID(ctx),
		IPAddress:  clientIP(r),
		UserAgent:  r.UserAgent(),
		Method:     r.Method,
		Path:       r.URL.Path,
		StatusCode: statusCode,
		Metadata: map[string]interface{}{
			"duration_ms": duration.Milliseconds(),
		},
	})
}

// Search returns events matching the filter, newest first.
func (l *DBLogger) Search(ctx context.Context, filter SearchFilter) ([]*AuditEvent, error) {
	query := `
		SELECT id, timestamp, event_type, status,
		       COALESCE(user_id, ''), COALESCE(tenant_id, ''),
		       COALESCE(resource_type, ''), COALESCE(resource_id, ''), COALESCE(resource_name, ''),
		       COALESCE(ip_address, ''), COALESCE(method, ''), COALESCE(path, ''),
		       COALESCE(status_code, 0),
		       COALESCE(message, ''), COALESCE(error_message, '')
		FROM audit_logs
		WHERE 1=1`

	var args []interface{}
	argCount := 0

	if filter.TenantID != "" {
		argCount++
		query += fmt.Sprintf(" AND tenant_id = $%d", argCount)
		args = append(args, filter.TenantID)
	}
	if filter.UserID != "" {
		argCount++
		query += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, filter.UserID)
	}
	if len(filter.EventTypes) > 0 {
		placeholders := make([]string, len(filter.EventTypes))
		for i, et := range filter.EventTypes {
			argCount++
			placeholders[i] = fmt.Sprintf("$%d", argCount)
			args = append(args, string(et))
		}
		query += fmt.Sprintf(" AND event_type IN (%s)", strings.Join(placeholders, ", "))
	}
	if filter.Status != "" {
		argCount++
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, string(filter.Status))
	}
	if filter.ResourceType != "" {
		argCount++
		query += fmt.Sprintf(" AND resource_type = $%d", argCount)
		args = append(args, string(filter.ResourceType))
	}
	if filter.ResourceID != "" {
		argCount++
		query += fmt.Sprintf(" AND resource_id = $%d", argCount)
		args = append(args, filter.ResourceID)
	}
	if filter.StartTime != nil {
		argCount++
		query += fmt.Sprintf(" AND timestamp >= $%d", argCount)
		args = append(args, *filter.StartTime)
	}
	if filter.EndTime != nil {
		argCount++
		query += fmt.Sprintf(" AND timestamp <= $%d", argCount)
		args = append(args, *filter.EndTime)
	}

	query += " ORDER BY timestamp DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	argCount++
	query += fmt.Sprintf(" LIMIT $%d", argCount)
	args = append(args, limit)

	if filter.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search audit events: %w", err)
	}
	defer rows.Close()

	var events []*AuditEvent
	for rows.Next() {
		event := &AuditEvent{}
		var resourceType string
		if err := rows.Scan(
			&event.ID, &event.Timestamp, &event.EventType, &event.Status,
			&event.UserID, &event.TenantID,
			&resourceType, &event.ResourceID, &event.ResourceName,
			&event.IPAddress, &event.Method, &event.Path, &event.StatusCode,
			&event.Message, &event.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		event.ResourceType = ResourceType(resourceType)
		events = append(events, event)
	}
	return events, rows.Err()
}

// Cleanup deletes events older than the retention policy allows and
// returns how many rows were removed.
func (l *DBLogger) Cleanup(ctx context.Context, policy RetentionPolicy) (int64, error) {
	cutoff := time.Now().Add(-policy.MaxAge)
	result, err := l.db.ExecContext(ctx, "DELETE FROM audit_logs WHERE timestamp < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up audit events: %w", err)
	}
	return result.RowsAffected()
}

// Close is a no-op; the caller owns the database handle.
func (l *DBLogger) Close() error { return nil }

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
