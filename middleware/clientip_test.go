package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webroot/middleware"
)

func TestExtractIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		trust   bool
		want    string
	}{
		{"remote addr", "192.168.1.100:54321", nil, false, "192.168.1.100"},
		{"ipv6 remote addr", "[2001:db8::1]:443", nil, false, "2001:db8::1"},
		{"headers ignored when untrusted", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.7"}, false, "10.0.0.1"},
		{"forwarded for leftmost", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, true, "203.0.113.7"},
		{"cloudflare wins", "10.0.0.1:1", map[string]string{
			"CF-Connecting-IP": "198.51.100.1",
			"X-Forwarded-For":  "203.0.113.7",
		}, true, "198.51.100.1"},
		{"real ip", "10.0.0.1:1", map[string]string{"X-Real-IP": "203.0.113.9"}, true, "203.0.113.9"},
		{"invalid header skipped", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "203.0.113.9"}, true, "203.0.113.9"},
		{"unspecified rejected", "10.0.0.1:1", map[string]string{"X-Real-IP": "0.0.0.0"}, true, "10.0.0.1"},
		{"unparseable remote", "pipe", nil, false, "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, middleware.ExtractIP(req, tt.trust))
		})
	}
}

func TestClientIPMiddleware(t *testing.T) {
	t.Parallel()

	var captured string
	var found bool
	h := middleware.ClientIPWithConfig(middleware.ClientIPConfig{TrustProxyHeaders: true})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, found = middleware.GetClientIP(r.Context())
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:12345"
	req.Header.Set("X-Forwarded-For", "203.0.113.50")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, found)
	assert.Equal(t, "203.0.113.50", captured)
}

func TestGetClientIPMissing(t *testing.T) {
	t.Parallel()

	_, ok := middleware.GetClientIP(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
