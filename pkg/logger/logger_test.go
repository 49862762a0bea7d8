package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json格式", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := NewWithWriter(&buf, Options{Level: "info", Format: "json"})
		require.NoError(t, err)

		l.Info("借书成功", "book_id", "ISBN-L1")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "借书成功", entry["msg"])
		assert.Equal(t, "ISBN-L1", entry["book_id"])
		assert.NotContains(t, entry, "trace_id", "没有Span时不输出trace_id")
	})

	t.Run("低于级别的日志被过滤", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := NewWithWriter(&buf, Options{Level: "warn", Format: "text"})
		require.NoError(t, err)

		l.Info("ignored")
		l.Debug("ignored")
		assert.Zero(t, buf.Len())

		l.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("不支持的格式", func(t *testing.T) {
		_, err := NewWithWriter(&bytes.Buffer{}, Options{Format: "xml"})
		assert.Error(t, err)
	})
}

func TestTraceCorrelation(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, Options{Format: "json"})
	require.NoError(t, err)

	ctx, span := tp.Tracer("test").Start(context.Background(), "BorrowBook")
	l.With("component", "circulation").InfoContext(ctx, "借书成功")
	span.End()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
	assert.Equal(t, "circulation", entry["component"])
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tc := range testCases {
		got, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.log")

	l, closeFn, err := New(Options{Level: "info", Format: "text", Output: path})
	require.NoError(t, err)
	l.Info("启动完成")
	require.NoError(t, closeFn())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "启动完成")
}
