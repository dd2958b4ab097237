package audit

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/contextkeys"
)

// FileLogger appends audit events as JSON lines, rotating by size.
// It backs deployments that ship audit trails off-host instead of (or
// in addition to) keeping them in Postgres.
type FileLogger struct {
	mu          sync.Mutex
	file        *os.File
	currentSize int64
	config      FileLoggerConfig
}

// FileLoggerConfig configures the file logger.
type FileLoggerConfig struct {
	Path       string
	MaxSize    int64
	MaxRotated int
	FileMode   os.FileMode
}

// DefaultFileLoggerConfig rotates at 100 MB keeping five old files.
func DefaultFileLoggerConfig() FileLoggerConfig {
	return FileLoggerConfig{
		Path:       "audit.log",
		MaxSize:    100 * 1024 * 1024,
		MaxRotated: 5,
		FileMode:   0o600,
	}
}

// NewFileLogger opens (or creates) the audit log file.
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("audit log path is required")
	}
	if config.MaxSize <= 0 {
		config.MaxSize = DefaultFileLoggerConfig().MaxSize
	}
	if config.FileMode == 0 {
		config.FileMode = 0o600
	}

	l := &FileLogger{config: config}
	if err := l.openLogFile(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *FileLogger) openLogFile() error {
	file, err := os.OpenFile(l.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, l.config.FileMode)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat audit log: %w", err)
	}

	l.file = file
	l.currentSize = info.Size()
	return nil
}

// rotate renames the current file with a timestamp suffix and opens a
// fresh one. Caller holds the mutex.
func (l *FileLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}

	rotated := fmt.Sprintf("%s.%s", l.config.Path, time.Now().Format("20060102-150405"))
	if err := os.Rename(l.config.Path, rotated); err != nil {
		return fmt.Errorf("failed to rotate audit log: %w", err)
	}

	l.cleanupRotated()
	return l.openLogFile()
}

func (l *FileLogger) cleanupRotated() {
	if l.config.MaxRotated <= 0 {
		return
	}
	matches, err := filepath.Glob(l.config.Path + ".*")
	if err != nil || len(matches) <= l.config.MaxRotated {
		return
	}
	// Glob results are sorted, and the timestamp suffix sorts oldest
	// first.
	for _, old := range matches[:len(matches)-l.config.MaxRotated] {
		os.Remove(old)
	}
}

// Log appends one event as a JSON line.
func (l *FileLogger) Log(ctx context.Context, event *AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = contextkeys.RequestID(ctx)
	}

	data, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentSize+int64(len(data)) > l.config.MaxSize {
		if err := l.rotate(); err != nil {
			return err
		}
	}

	n, err := l.file.Write(data)
	l.currentSize += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	return nil
}

// LogDenied records an authorization denial.
func (l *FileLogger) LogDenied(ctx context.Context, eventType EventType, userID, tenantID, reason string) error {
	return l.Log(ctx, &AuditEvent{
		EventType: eventType,
		Status:    EventStatusDenied,
		UserID:    userID,
		TenantID:  tenantID,
		Message:   reason,
	})
}

// LogMutation records a data mutation.
func (l *FileLogger) LogMutation(ctx context.Context, eventType EventType, userID, tenantID string, resourceType ResourceType, resourceID string, changes *ChangeDetails, message string) error {
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
func (l *FileLogger) LogHTTPRequest(ctx context.Context, r *http.Request, statusCode int, duration time.Duration) error {
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

// Close closes the log file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// ReadLogs reads back up to count events from the current file, oldest
// first. Intended for tests and operator spot checks.
func (l *FileLogger) ReadLogs(count int) ([]*AuditEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.config.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var events []*AuditEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() && (count <= 0 || len(events) < count) {
		event, err := FromJSON(scanner.Bytes())
		if err != nil {
			return nil, fmt.Errorf("corrupt audit line: %w", err)
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}
