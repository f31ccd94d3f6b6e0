package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webroot/core/metrics"
	"github.com/dmitrymomot/webroot/middleware"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	h := middleware.Metrics(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("12345"))
		case "/missing":
			http.NotFound(w, r)
		}
	}))

	for _, p := range []string{"/ok", "/ok", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `webroot_http_responses_total{code="200",method="GET"} 2`)
	assert.Contains(t, out, `webroot_http_responses_total{code="404",method="GET"} 1`)
	assert.Contains(t, out, `webroot_http_request_duration_seconds_count{method="GET"} 3`)
	assert.Contains(t, out, "webroot_http_requests_in_flight 0")
}

func TestMetricsRecordsAbortedResponse(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	h := middleware.Metrics(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		panic(http.ErrAbortHandler)
	}))

	assert.Panics(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `webroot_http_responses_total{code="200",method="GET"} 1`)
	assert.Contains(t, rec.Body.String(), "webroot_http_requests_in_flight 0")
}
