package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrymomot/webroot/core/logger"
)

// LoggingConfig configures the access logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for successful requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// LogHeaders enables logging of request/response headers (default: false)
	LogHeaders bool

	// SensitiveHeaders is a list of header names to redact (default: common auth headers)
	SensitiveHeaders []string

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging
	Component string
}

// Logging creates an access logging middleware that writes one record per
// completed request.
func Logging(log *slog.Logger) func(http.Handler) http.Handler {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig creates an access logging middleware with custom configuration.
// 4xx responses log at warn, 5xx at error. Redirects and 304s are successes.
func LoggingWithConfig(cfg LoggingConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{
			"Authorization",
			"Cookie",
			"Set-Cookie",
			"X-Api-Key",
			"X-Auth-Token",
			"X-Csrf-Token",
		}
	}

	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}

	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := wrapWriter(w)

			defer func() {
				// Log aborted responses too, then let the panic continue.
				rec := recover()
				duration := time.Since(start)

				remote := r.RemoteAddr
				if ip, ok := GetClientIP(r.Context()); ok {
					remote = ip
				}

				attrs := []slog.Attr{
					logger.Component(cfg.Component),
					logger.Event("request"),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.StatusCode(wrapped.statusCode),
					logger.BytesOut(wrapped.size),
					logger.Latency(duration),
					logger.RemoteAddr(remote),
				}

				if requestID, ok := GetRequestID(r.Context()); ok {
					attrs = append(attrs, logger.RequestID(requestID))
				}
				if r.URL.RawQuery != "" {
					attrs = append(attrs, logger.Query(r.URL.RawQuery))
				}
				if ua := r.UserAgent(); ua != "" {
					attrs = append(attrs, logger.UserAgent(ua))
				}
				if rng := r.Header.Get("Range"); rng != "" {
					attrs = append(attrs, slog.String("range", rng))
				}

				if cfg.LogHeaders {
					attrs = append(attrs,
						slog.Any("request_headers", redactHeaders(r.Header, cfg.SensitiveHeaders)),
						slog.Any("response_headers", redactHeaders(wrapped.Header(), cfg.SensitiveHeaders)),
					)
				}

				level := cfg.LogLevel
				switch {
				case rec != nil:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("aborted", true))
				case wrapped.statusCode >= 500:
					level = slog.LevelError
				case wrapped.statusCode >= 400:
					level = slog.LevelWarn
				case duration > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}

				cfg.Logger.LogAttrs(r.Context(), level, "HTTP request completed", attrs...)

				if rec != nil {
					panic(rec)
				}
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

func redactHeaders(h http.Header, sensitive []string) map[string]any {
	headers := make(map[string]any, len(h))
	for key, values := range h {
		switch {
		case slices.Contains(sensitive, key):
			headers[key] = "[REDACTED]"
		case len(values) == 1:
			headers[key] = values[0]
		default:
			headers[key] = values
		}
	}
	return headers
}
