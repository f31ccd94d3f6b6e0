package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webroot/core/logger"
)

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestLatency(t *testing.T) {
	t.Parallel()
	d := 100 * time.Millisecond
	attr := logger.Latency(d)
	require.Equal(t, "latency", attr.Key)
	assert.Equal(t, d, attr.Value.Duration())
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	attr := logger.RequestID("req-123")
	require.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-123", attr.Value.String())

	empty := logger.RequestID("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestHTTPAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want any
	}{
		{"method", logger.Method("GET"), "method", "GET"},
		{"path", logger.Path("/a.txt"), "path", "/a.txt"},
		{"query", logger.Query("v=1"), "query", "v=1"},
		{"status", logger.StatusCode(206), "status_code", int64(206)},
		{"remote", logger.RemoteAddr("10.0.0.1:5000"), "remote_addr", "10.0.0.1:5000"},
		{"user_agent", logger.UserAgent("curl/8"), "user_agent", "curl/8"},
		{"bytes_out", logger.BytesOut(2048), "bytes_out", int64(2048)},
		{"component", logger.Component("static"), "component", "static"},
		{"event", logger.Event("request"), "event", "request"},
		{"addr", logger.Addr(":8080"), "addr", ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}

	assert.True(t, logger.Query("").Equal(slog.Attr{}))
	assert.True(t, logger.UserAgent("").Equal(slog.Attr{}))
}

func TestStack(t *testing.T) {
	t.Parallel()

	stack := logger.Stack()
	require.Equal(t, "stack", stack.Key)
	assert.Contains(t, stack.Value.String(), "TestStack")
}
