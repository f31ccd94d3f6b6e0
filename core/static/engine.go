package static

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/dmitrymomot/webroot/core/handler"
	"github.com/dmitrymomot/webroot/core/logger"
)

// Engine is the static-file pipeline stage: it resolves the request path and,
// when a file is found, responds with it. Unresolved requests are declined.
type Engine struct {
	resolver              *Resolver
	responder             *Responder
	redirectTrailingSlash bool
	logger                *slog.Logger
}

var _ handler.Stage = (*Engine)(nil)

// New creates an Engine serving files from root.
// Configuration is fixed at construction; the Engine is safe for concurrent use.
func New(root string, opts ...Option) (*Engine, error) {
	cfg := newConfig(opts)

	resolver, err := newResolver(root, cfg)
	if err != nil {
		return nil, err
	}

	return &Engine{
		resolver:              resolver,
		responder:             newResponder(cfg),
		redirectTrailingSlash: cfg.redirectTrailingSlash,
		logger:                cfg.logger,
	}, nil
}

// MustNew is like New but panics on error. Intended for startup wiring.
func MustNew(root string, opts ...Option) *Engine {
	e, err := New(root, opts...)
	if err != nil {
		panic("static.New: " + err.Error())
	}
	return e
}

// Resolver returns the engine's path resolver.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// Responder returns the engine's file responder.
func (e *Engine) Responder() *Responder {
	return e.responder
}

// Healthcheck reports whether the root directory is still present and
// readable. Its signature fits health.Readiness.
func (e *Engine) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(e.resolver.Root())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, e.resolver.Root())
	}
	return nil
}

// Serve implements handler.Stage.
// Only GET and HEAD are handled; other methods and unresolved paths are declined.
func (e *Engine) Serve(r *http.Request) (handler.Response, bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return nil, false
	}

	var entry Entry
	err := checkEscapedPath(r.URL.EscapedPath())
	if err != nil {
		e.resolver.observer.Resolved(OutcomeInvalidPath)
	} else {
		entry, err = e.resolver.Resolve(r.Context(), r.URL.Path)
	}
	if err != nil {
		e.logger.DebugContext(r.Context(), "static request declined",
			logger.Component("static"),
			logger.Path(r.URL.Path),
			logger.Error(err),
		)
		return nil, false
	}

	if entry.DefaultDocument && e.redirectTrailingSlash && !strings.HasSuffix(r.URL.Path, "/") {
		return redirectToSlash, true
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		return e.responder.Respond(w, r, entry)
	}, true
}

// ServeHTTP serves r directly, answering 404 when the request is declined.
// Useful when the engine is mounted without a pipeline.
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, ok := e.Serve(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := resp(w, r); err != nil {
		if errors.Is(err, ErrStreamAborted) {
			panic(http.ErrAbortHandler)
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func redirectToSlash(w http.ResponseWriter, r *http.Request) error {
	// Clean collapses a leading "//" so the target cannot become a
	// scheme-relative URL pointing at another host.
	target := (&url.URL{Path: path.Clean(r.URL.Path) + "/"}).EscapedPath()
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return nil
}
