package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/webroot/core/logger"
)

// Recover converts handler panics into 500 responses. http.ErrAbortHandler
// is re-raised so net/http can drop the connection silently, and a panic
// after headers were sent is logged without writing a second status.
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrapWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}

				attrs := []slog.Attr{
					logger.Component("recover"),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Error(err),
					logger.Stack(),
				}
				if id, ok := GetRequestID(r.Context()); ok {
					attrs = append(attrs, logger.RequestID(id))
				}
				log.LogAttrs(r.Context(), slog.LevelError, "panic recovered", attrs...)

				if wrapped.headerWritten {
					panic(http.ErrAbortHandler)
				}
				http.Error(wrapped, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}
