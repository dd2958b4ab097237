package audit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileLogger(t *testing.T, config FileLoggerConfig) *FileLogger {
	t.Helper()
	if config.Path == "" {
		config.Path = filepath.Join(t.TempDir(), "audit.log")
	}
	logger, err := NewFileLogger(config)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger
}

func TestFileLoggerRoundTrip(t *testing.T) {
	logger := newTestFileLogger(t, FileLoggerConfig{})

	require.NoError(t, logger.LogDenied(t.Context(), EventTypeAuthDenied, "user-1", "tenant-1", "membership inactive"))
	require.NoError(t, logger.LogMutation(t.Context(), EventTypeRoleCreate, "user-1", "tenant-1", ResourceTypeRole, "role-5", nil, "created capo cantiere"))

	events, err := logger.ReadLogs(0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, EventTypeAuthDenied, events[0].EventType)
	assert.Equal(t, EventStatusDenied, events[0].Status)
	assert.Equal(t, "membership inactive", events[0].Message)

	assert.Equal(t, EventTypeRoleCreate, events[1].EventType)
	assert.Equal(t, "role-5", events[1].ResourceID)
}

func TestFileLoggerRequiresPath(t *testing.T) {
	_, err := NewFileLogger(FileLoggerConfig{})
	assert.Error(t, err)
}

func TestFileLoggerRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	logger := newTestFileLogger(t, FileLoggerConfig{
		Path:       path,
		MaxSize:    256,
		MaxRotated: 2,
	})

	for i := 0; i < 20; i++ {
		require.NoError(t, logger.LogDenied(t.Context(), EventTypeAuthDenied, "user-1", "tenant-1", "padding so the file fills quickly"))
	}

	rotated, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.NotEmpty(t, rotated, "expected at least one rotated file")
	assert.LessOrEqual(t, len(rotated), 2)

	// The active file still holds the most recent events.
	events, err := logger.ReadLogs(0)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}

func TestFileLoggerReadLogsCount(t *testing.T) {
	logger := newTestFileLogger(t, FileLoggerConfig{})

	for i := 0; i < 5; i++ {
		require.NoError(t, logger.LogDenied(t.Context(), EventTypeAuthDenied, "user-1", "tenant-1", "nope"))
	}

	events, err := logger.ReadLogs(3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}
