package middleware

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/webroot/core/metrics"
)

// Metrics records status, method, body size and latency of every response
// into m, plus the in-flight gauge. Aborted responses are recorded before
// the panic propagates.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			done := m.RequestStarted()
			wrapped := wrapWriter(w)

			defer func() {
				done()
				m.ObserveResponse(r.Method, wrapped.statusCode, wrapped.size, time.Since(start))
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}
