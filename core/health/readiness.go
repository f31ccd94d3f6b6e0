package health

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/webroot/core/logger"
)

// Check verifies one dependency.
type Check func(context.Context) error

// Readiness runs every check in order and answers 503 on the first failure.
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")

		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "Readiness check failed", logger.Component("health"), logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				if r.Method != http.MethodHead {
					_, _ = io.WriteString(w, http.StatusText(http.StatusServiceUnavailable))
				}
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = io.WriteString(w, "READY")
		}
	}
}
