package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := NewLogger(
		WithEncoding("json"),
		WithOutputPaths([]string{path}),
		WithInitialFields(map[string]interface{}{"service": "test"}),
	)
	require.NoError(t, err)

	log.Named("printer").Info("Ready", String("printer", "online"))
	log.Debug("hidden")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"message":"Ready"`)
	assert.Contains(t, out, `"logger":"printer"`)
	assert.Contains(t, out, `"service":"test"`)
	assert.NotContains(t, out, "hidden")
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(WithLevel("verbose"))
	assert.Error(t, err)
}

func TestWithConfigKeepsDefaults(t *testing.T) {
	cfg := &Config{Level: "info", Encoding: "console", MaxSize: 100}
	WithConfig(Config{Level: "debug"})(cfg)

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, 100, cfg.MaxSize)
}

func TestTestLoggerSharesEntries(t *testing.T) {
	tl := NewTestLogger()
	child := tl.Named("spool").With(String("job_id", "j1"))

	tl.Info("root")
	child.Warn("child")

	entries := tl.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "spool", entries[1].Logger)
	assert.Equal(t, "WARN", entries[1].Level)
	assert.Len(t, entries[1].Fields, 1)

	tl.Clear()
	assert.Zero(t, tl.Count("root"))
}

func TestFromContext(t *testing.T) {
	tl := NewTestLogger()

	FromContext(context.Background(), tl).Info("plain")
	FromContext(ContextWithJobID(context.Background(), "j1"), tl).Info("tagged")

	entries := tl.GetEntries()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].Fields)
	require.Len(t, entries[1].Fields, 1)
	assert.Equal(t, "job_id", entries[1].Fields[0].Key)
}
