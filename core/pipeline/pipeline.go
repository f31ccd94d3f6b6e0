package pipeline

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/webroot/core/handler"
	"github.com/dmitrymomot/webroot/core/logger"
)

// Pipeline dispatches a request to an ordered list of stages.
// The first stage that handles the request renders the response; when every
// stage declines, the fallback handler runs.
// A Pipeline is immutable after New and safe for concurrent use.
type Pipeline struct {
	stages       []handler.Stage
	fallback     http.Handler
	errorHandler handler.ErrorHandler
	logger       *slog.Logger
}

// New creates a Pipeline. Without options it has no stages and answers 404.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		fallback: http.NotFoundHandler(),
		logger:   logger.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.errorHandler == nil {
		p.errorHandler = DefaultErrorHandler(p.logger)
	}

	return p
}

// Stages returns a copy of the configured stages.
func (p *Pipeline) Stages() []handler.Stage {
	return append([]handler.Stage(nil), p.stages...)
}

// ServeHTTP implements http.Handler.
func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, stage := range p.stages {
		resp, ok := stage.Serve(r)
		if !ok {
			continue
		}

		tw := &trackingWriter{ResponseWriter: w}
		if err := resp(tw, r); err != nil {
			p.errorHandler(tw, r, err)
		}
		return
	}

	p.fallback.ServeHTTP(w, r)
}

// DefaultErrorHandler logs err and answers 500. When the response has already
// started it panics with http.ErrAbortHandler so net/http drops the connection
// instead of sending a truncated body as if it were complete.
func DefaultErrorHandler(log *slog.Logger) handler.ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		started := HeadersWritten(w)

		log.ErrorContext(r.Context(), "request failed",
			logger.Component("pipeline"),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			slog.Bool("response_started", started),
			logger.Error(err),
		)

		if started {
			panic(http.ErrAbortHandler)
		}

		status := http.StatusInternalServerError
		var sc interface{ StatusCode() int }
		if errors.As(err, &sc) && sc.StatusCode() >= 500 {
			status = sc.StatusCode()
		}
		http.Error(w, http.StatusText(status), status)
	}
}

// HeadersWritten reports whether a response header has been sent through w.
// Writers not created by the pipeline report false.
func HeadersWritten(w http.ResponseWriter) bool {
	if tw, ok := w.(*trackingWriter); ok {
		return tw.wroteHeader
	}
	return false
}

// trackingWriter records whether the header has been written.
type trackingWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *trackingWriter) WriteHeader(code int) {
	if code >= 200 || code == http.StatusSwitchingProtocols {
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Flush implements http.Flusher when the underlying writer does.
func (w *trackingWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		w.wroteHeader = true
		f.Flush()
	}
}
