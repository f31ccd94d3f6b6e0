package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/webroot/middleware"
)

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	h := middleware.SecurityHeaders()(http.NotFoundHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "cross-origin", w.Header().Get("Cross-Origin-Resource-Policy"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeadersPresets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		wantFrame string
		wantCSP   bool
	}{
		{"strict", "DENY", true},
		{"balanced", "SAMEORIGIN", false},
		{"relaxed", "", false},
		{"unknown", "SAMEORIGIN", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := middleware.SecurityHeadersWithConfig(middleware.SecurityHeadersFor(tt.name))(http.NotFoundHandler())
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, tt.wantFrame, w.Header().Get("X-Frame-Options"))
			assert.Equal(t, tt.wantCSP, w.Header().Get("Content-Security-Policy") != "")
		})
	}
}

func TestSecurityHeadersDevelopmentAndCustom(t *testing.T) {
	t.Parallel()

	cfg := middleware.BalancedSecurity
	cfg.IsDevelopment = true
	cfg.CustomHeaders = map[string]string{"X-Served-By": "webroot"}

	h := middleware.SecurityHeadersWithConfig(cfg)(http.NotFoundHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "webroot", w.Header().Get("X-Served-By"))
}

func TestSecurityHeadersSkip(t *testing.T) {
	t.Parallel()

	cfg := middleware.StrictSecurity
	cfg.Skip = func(r *http.Request) bool { return r.URL.Path == "/metrics" }

	h := middleware.SecurityHeadersWithConfig(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Empty(t, w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/a.txt", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
