package pipeline

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/webroot/core/handler"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStages appends stages in dispatch order.
func WithStages(stages ...handler.Stage) Option {
	return func(p *Pipeline) {
		for _, s := range stages {
			if s != nil {
				p.stages = append(p.stages, s)
			}
		}
	}
}

// WithFallback sets the handler used when every stage declines (default: 404).
func WithFallback(h http.Handler) Option {
	return func(p *Pipeline) {
		if h != nil {
			p.fallback = h
		}
	}
}

// WithErrorHandler sets the handler for errors returned by a stage response.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(p *Pipeline) {
		p.errorHandler = h
	}
}

// WithLogger sets the logger used by the default error handler.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.logger = log
		}
	}
}
