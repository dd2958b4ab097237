package audit

import (
	"context"
)

// Store is the query side of the audit trail.
type Store interface {
	Search(ctx context.Context, filter SearchFilter) ([]*AuditEvent, error)
	Export(ctx context.Context, filter SearchFilter, format ExportFormat) ([]byte, error)
	Cleanup(ctx context.Context, policy RetentionPolicy) (int64, error)
}

// DBStore serves queries from the database logger's table.
type DBStore struct {
	logger *DBLogger
}

// NewDBStore wraps a database logger for querying.
func NewDBStore(logger *DBLogger) *DBStore {
	return &DBStore{logger: logger}
}

// Search returns events matching the filter, newest first.
func (s *DBStore) Search(ctx context.Context, filter SearchFilter) ([]*AuditEvent, error) {
	return s.logger.Search(ctx, filter)
}

// Export searches and encodes matching events. Export queries are
// allowed a larger page than interactive searches.
func (s *DBStore) Export(ctx context.Context, filter SearchFilter, format ExportFormat) ([]byte, error) {
	if filter.Limit <= 0 {
		filter.Limit = 1000
	}
	events, err := s.logger.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return Export(events, format)
}

// Cleanup deletes events older than the retention policy allows.
func (s *DBStore) Cleanup(ctx context.Context, policy RetentionPolicy) (int64, error) {
	return s.logger.Cleanup(ctx, policy)
}
