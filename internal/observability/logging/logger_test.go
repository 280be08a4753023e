package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/handler/http/requestid"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, slog.LevelInfo)

	logger.Info("refresh completed", slog.Int("articles", 12))

	entry := decode(t, &buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "refresh completed", entry["msg"])
	assert.Equal(t, float64(12), entry["articles"])
	assert.NotContains(t, entry, "source")
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatText, slog.LevelInfo)

	logger.Info("hello", slog.String("k", "v"))

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "k=v")
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, slog.LevelWarn)

	logger.Info("dropped")
	logger.Debug("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Equal(t, "kept", decode(t, &buf)["msg"])
}

func TestNew_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, FormatJSON, slog.LevelDebug).Debug("trace me")

	assert.Contains(t, decode(t, &buf), "source")
}

func TestNewLogger_FromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "TEXT")

	logger := NewLogger()

	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	_, isText := logger.Handler().(*slog.TextHandler)
	assert.True(t, isText)
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, FormatJSON, slog.LevelInfo)

	ctx := requestid.WithRequestID(context.Background(), "req-42")
	WithRequestID(ctx, base).Info("handled")

	assert.Equal(t, "req-42", decode(t, &buf)["request_id"])
}

func TestWithRequestID_Missing(t *testing.T) {
	base := slog.Default()
	assert.Same(t, base, WithRequestID(context.Background(), base))
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := WithFields(New(&buf, FormatJSON, slog.LevelInfo), map[string]any{
		"run_id":  "abc",
		"sources": 8,
	})

	logger.Info("run")

	entry := decode(t, &buf)
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, float64(8), entry["sources"])
}

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, slog.LevelInfo)
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))

	FromContext(ctx).Info("via context")
	assert.True(t, strings.Contains(buf.String(), "via context"))
}
