// Package middleware provides net/http middleware for the file server:
// request IDs, client IP extraction, access logging, panic recovery,
// Prometheus instrumentation and security headers.
//
// Every constructor returns func(http.Handler) http.Handler, so the
// middlewares compose with handler.Chain or any router's Use:
//
//	h := handler.Chain(pipe,
//		middleware.RequestID(),
//		middleware.ClientIP(),
//		middleware.Logging(log),
//		middleware.Metrics(m),
//		middleware.Recover(log),
//		middleware.SecurityHeaders(),
//	)
//
// The first middleware is outermost. Logging, Metrics and Recover share a
// single status-capturing writer when stacked, so the logged status is the
// one Recover wrote.
//
// Middlewares that take a config struct also have a WithConfig variant,
// and most configs accept a Skip func to bypass them per request:
//
//	middleware.LoggingWithConfig(middleware.LoggingConfig{
//		Logger: log,
//		Skip: func(r *http.Request) bool {
//			return r.URL.Path == "/healthz"
//		},
//	})
package middleware
