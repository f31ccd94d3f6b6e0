package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/webroot/core/config"
	"github.com/dmitrymomot/webroot/core/handler"
	"github.com/dmitrymomot/webroot/core/health"
	"github.com/dmitrymomot/webroot/core/logger"
	"github.com/dmitrymomot/webroot/core/metrics"
	"github.com/dmitrymomot/webroot/core/pipeline"
	"github.com/dmitrymomot/webroot/core/server"
	"github.com/dmitrymomot/webroot/core/static"
	"github.com/dmitrymomot/webroot/middleware"
)

// ErrSecurityPreset is returned for an unknown HTTP_SECURITY_HEADERS value.
var ErrSecurityPreset = errors.New("unknown security headers preset")

// App wires the static engine into an HTTP server.
type App struct {
	config    Config
	hasConfig bool
	logger    *slog.Logger
	metrics   *metrics.Metrics
	engine    *static.Engine
	pipeline  *pipeline.Pipeline
	router    chi.Router
	server    *server.Server
}

// Option customizes App construction.
type Option func(*App) error

// New builds the application. Without WithConfig the configuration is read
// from the environment (and .env) through config.Load.
func New(opts ...Option) (*App, error) {
	app := &App{}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if !app.hasConfig {
		if err := config.Load(&app.config); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		log, err := newLogger(app.config)
		if err != nil {
			return nil, err
		}
		app.logger = log
	}

	if app.metrics == nil && app.config.Metrics.Enabled {
		mopts := []metrics.Option{metrics.WithLogger(app.logger)}
		if app.config.Metrics.ProcessMetrics {
			mopts = append(mopts, metrics.WithProcessMetrics())
		}
		app.metrics = metrics.New(mopts...)
	}

	if app.engine == nil {
		engine, err := newEngine(app.config.Static, app.logger, app.metrics)
		if err != nil {
			return nil, err
		}
		app.engine = engine
	}

	if app.pipeline == nil {
		p, err := newPipeline(app.config.Static, app.engine, app.logger)
		if err != nil {
			return nil, err
		}
		app.pipeline = p
	}

	router, err := app.newRouter()
	if err != nil {
		return nil, err
	}
	app.router = router

	if app.server == nil {
		s, err := server.NewFromConfig(app.config.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	return app, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Server returns the HTTP server.
func (a *App) Server() *server.Server {
	return a.server
}

// Engine returns the static file engine.
func (a *App) Engine() *static.Engine {
	return a.engine
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run serves until ctx is canceled or the server fails, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "serving static files",
		logger.Component("app"),
		slog.String("app", a.config.AppName),
		slog.String("env", a.config.Env),
		slog.String("root", a.engine.Resolver().Root()),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(ctx, a.router))
	return g.Wait()
}

func newLogger(cfg Config) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	format := logger.Format(cfg.LogFormat)
	if format != logger.FormatJSON && format != logger.FormatText {
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithAttr(slog.String("app", cfg.AppName)),
	), nil
}

func staticOptions(cfg StaticConfig, log *slog.Logger) ([]static.Option, error) {
	overrides, err := config.LoadMIMETypes(cfg.MIMEFile)
	if err != nil {
		return nil, err
	}

	caseMode := static.CaseSensitive
	if cfg.CaseInsensitive {
		caseMode = static.CaseInsensitive
	}

	return []static.Option{
		static.WithLogger(log),
		static.WithDefaultDocuments(cfg.DefaultDocuments...),
		static.WithMIMETable(static.NewMIMETable(overrides)),
		static.WithCaseMode(caseMode),
		static.WithSniffUnknown(cfg.SniffUnknown),
		static.WithCacheControl(cfg.CacheControl),
		static.WithMetadataCache(cfg.CacheSize, cfg.CacheTTL),
		static.WithRedirectTrailingSlash(cfg.RedirectTrailingSlash),
		static.WithServeHidden(cfg.ServeHidden),
		static.WithChunkSize(cfg.ChunkSize),
	}, nil
}

func newEngine(cfg StaticConfig, log *slog.Logger, m *metrics.Metrics) (*static.Engine, error) {
	opts, err := staticOptions(cfg, log)
	if err != nil {
		return nil, err
	}
	if m != nil {
		opts = append(opts, static.WithObserver(m))
	}
	return static.New(cfg.Root, opts...)
}

func newPipeline(cfg StaticConfig, engine *static.Engine, log *slog.Logger) (*pipeline.Pipeline, error) {
	popts := []pipeline.Option{
		pipeline.WithStages(engine),
		pipeline.WithLogger(log),
	}

	if cfg.NotFoundPage != "" {
		opts, err := staticOptions(cfg, log)
		if err != nil {
			return nil, err
		}
		page, err := static.NotFoundPage(cfg.NotFoundPage, opts...)
		if err != nil {
			return nil, err
		}
		popts = append(popts, pipeline.WithFallback(page))
	}

	return pipeline.New(popts...), nil
}

// newRouter mounts health and metrics endpoints and hands every other
// request to the pipeline.
func (a *App) newRouter() (chi.Router, error) {
	var security handler.Middleware
	switch a.config.HTTP.SecurityHeaders {
	case "", "off", "none":
	case "strict", "balanced", "relaxed":
		cfg := middleware.SecurityHeadersFor(a.config.HTTP.SecurityHeaders)
		cfg.IsDevelopment = a.config.Env == "development"
		security = middleware.SecurityHeadersWithConfig(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrSecurityPreset, a.config.HTTP.SecurityHeaders)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIPWithConfig(middleware.ClientIPConfig{
		TrustProxyHeaders: a.config.HTTP.TrustProxyHeaders,
	}))
	if a.config.HTTP.AccessLog {
		r.Use(middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger: a.logger,
			Skip:   a.isProbe,
		}))
	}
	if a.metrics != nil {
		r.Use(middleware.Metrics(a.metrics))
	}
	r.Use(middleware.Recover(a.logger))
	if security != nil {
		r.Use(security)
	}

	if p := a.config.HTTP.HealthPath; p != "" {
		r.Get(p, health.Liveness)
		r.Head(p, health.Liveness)
	}
	if p := a.config.HTTP.ReadyPath; p != "" {
		ready := health.Readiness(a.logger, a.engine.Healthcheck)
		r.Get(p, ready)
		r.Head(p, ready)
	}
	if a.metrics != nil && a.config.Metrics.Path != "" {
		r.Method(http.MethodGet, a.config.Metrics.Path, a.metrics.Handler())
	}

	r.NotFound(a.pipeline.ServeHTTP)
	r.MethodNotAllowed(a.pipeline.ServeHTTP)

	return r, nil
}

func (a *App) isProbe(r *http.Request) bool {
	p := r.URL.Path
	return p == a.config.HTTP.HealthPath || p == a.config.HTTP.ReadyPath ||
		(a.metrics != nil && p == a.config.Metrics.Path)
}

// WithConfig supplies the configuration instead of reading the environment.
func WithConfig(cfg Config) Option {
	return func(app *App) error {
		app.config = cfg
		app.hasConfig = true
		return nil
	}
}

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

// WithServer replaces the server built from Config.Server.
func WithServer(server *server.Server) Option {
	return func(app *App) error {
		if server == nil {
			return errors.New("server cannot be nil")
		}
		app.server = server
		return nil
	}
}

// WithMetrics replaces the metrics built from Config.Metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(app *App) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		app.metrics = m
		return nil
	}
}

// WithEngine replaces the static engine built from Config.Static.
func WithEngine(engine *static.Engine) Option {
	return func(app *App) error {
		if engine == nil {
			return errors.New("engine cannot be nil")
		}
		app.engine = engine
		return nil
	}
}
