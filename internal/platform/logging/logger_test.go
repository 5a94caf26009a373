package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &out))
	return out
}

func TestLogger_KeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo).With("run_id", "r-1")

	logger.Info("period reconciled", "period", "2025-11-01", "inserted", 3, "error", errors.New("boom"))

	line := decodeLine(t, &buf)
	assert.Equal(t, "period reconciled", line["msg"])
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "r-1", line["run_id"])
	assert.Equal(t, "2025-11-01", line["period"])
	assert.EqualValues(t, 3, line["inserted"])
	assert.Equal(t, "boom", line["error"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)

	logger.Info("hidden")
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Equal(t, "shown", decodeLine(t, &buf)["msg"])
}

func TestLogger_OddArgsAndNonStringKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo)

	logger.Info("odd", 42, "v", "dangling")

	line := decodeLine(t, &buf)
	assert.Equal(t, "v", line["arg"])
	assert.Contains(t, line, "dangling")
	assert.Nil(t, line["dangling"])
}

func TestLogger_ContextAddsTraceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo)

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "traced")

	line := decodeLine(t, &buf)
	assert.Equal(t, traceID.String(), line["trace_id"])
	assert.Equal(t, spanID.String(), line["span_id"])
}

func TestLogger_NilAndDefault(t *testing.T) {
	var nilLogger *Logger
	assert.NotPanics(t, func() {
		nilLogger.Info("ignored")
		_ = nilLogger.Sync()
	})

	custom := NewNop()
	SetDefault(custom)
	t.Cleanup(func() { SetDefault(nil) })
	assert.Same(t, custom, Default())

	SetDefault(nil)
	assert.NotNil(t, Default())
}

func TestLogger_CallerIsCallSite(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo).With("run_id", "r-1")

	logger.InfoContext(context.Background(), "with context")
	assert.Contains(t, decodeLine(t, &buf)["caller"], "logging/logger_test.go:")

	buf.Reset()
	logger.Warn("plain")
	assert.Contains(t, decodeLine(t, &buf)["caller"], "logging/logger_test.go:")
}
