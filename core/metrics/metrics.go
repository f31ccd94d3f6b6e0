package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/webroot/core/logger"
	"github.com/dmitrymomot/webroot/core/static"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "webroot"

var _ static.Observer = (*Metrics)(nil)

// Metrics holds the Prometheus collectors for the file server.
//
//	webroot_http_responses_total{code,method}
//	webroot_http_response_bytes_total
//	webroot_http_request_duration_seconds{method}
//	webroot_http_requests_in_flight
//	webroot_static_resolutions_total{outcome}
//	webroot_static_cache_lookups_total{result}
type Metrics struct {
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	logger     *slog.Logger

	responses   *prometheus.CounterVec
	bytes       prometheus.Counter
	duration    *prometheus.HistogramVec
	inFlight    prometheus.Gauge
	resolutions *prometheus.CounterVec
	cache       *prometheus.CounterVec
}

// Option configures Metrics.
type Option func(*options)

type options struct {
	namespace      string
	registry       *prometheus.Registry
	registerer     prometheus.Registerer
	gatherer       prometheus.Gatherer
	buckets        []float64
	processMetrics bool
	logger         *slog.Logger
}

// WithNamespace overrides DefaultNamespace.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithRegistry registers collectors on reg and serves it from Handler.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithRegisterer registers collectors on reg and serves g from Handler.
// Use prometheus.DefaultRegisterer and prometheus.DefaultGatherer to share
// the process-wide registry.
func WithRegisterer(reg prometheus.Registerer, g prometheus.Gatherer) Option {
	return func(o *options) {
		o.registerer = reg
		o.gatherer = g
	}
}

// WithBuckets sets the request duration histogram buckets in seconds.
func WithBuckets(buckets ...float64) Option {
	return func(o *options) { o.buckets = buckets }
}

// WithProcessMetrics adds the Go runtime and process collectors.
func WithProcessMetrics() Option {
	return func(o *options) { o.processMetrics = true }
}

// WithLogger sets the logger used for registration failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates and registers the collectors. Without a registry option a
// private prometheus.Registry is used, so several instances can coexist.
func New(opts ...Option) *Metrics {
	o := options{
		namespace: DefaultNamespace,
		buckets:   prometheus.DefBuckets,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Metrics{logger: o.logger}
	switch {
	case o.registerer != nil:
		m.registerer, m.gatherer = o.registerer, o.gatherer
	case o.registry != nil:
		m.registerer, m.gatherer = o.registry, o.registry
	default:
		reg := prometheus.NewRegistry()
		m.registerer, m.gatherer = reg, reg
	}

	if o.processMetrics {
		m.register(collectors.NewGoCollector(), "go")
		m.register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), "process")
	}

	m.responses = m.register(prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "responses_total",
			Help:      "Total number of HTTP responses, labeled by status code and method.",
		},
		[]string{"code", "method"},
	), "responses_total").(*prometheus.CounterVec)

	m.bytes = m.register(prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "response_bytes_total",
			Help:      "Total number of response body bytes written.",
		},
	), "response_bytes_total").(prometheus.Counter)

	m.duration = m.register(prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving HTTP requests, including body streaming.",
			Buckets:   o.buckets,
		},
		[]string{"method"},
	), "request_duration_seconds").(*prometheus.HistogramVec)

	m.inFlight = m.register(prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		},
	), "requests_in_flight").(prometheus.Gauge)

	m.resolutions = m.register(prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "static",
			Name:      "resolutions_total",
			Help:      "Path resolutions by outcome.",
		},
		[]string{"outcome"},
	), "resolutions_total").(*prometheus.CounterVec)

	m.cache = m.register(prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "static",
			Name:      "cache_lookups_total",
			Help:      "Metadata cache lookups by result (hit or miss).",
		},
		[]string{"result"},
	), "cache_lookups_total").(*prometheus.CounterVec)

	return m
}

// register adds c to the registerer, reusing an identical collector that
// is already registered.
func (m *Metrics) register(c prometheus.Collector, name string) prometheus.Collector {
	if err := m.registerer.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		m.logger.Error("failed to register metric",
			logger.Component("metrics"),
			slog.String("metric", name),
			logger.Error(err),
		)
	}
	return c
}

// Handler serves the gathered metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(m.logger.Handler(), slog.LevelError),
	})
}

// Gatherer returns the gatherer backing Handler.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// RequestStarted increments the in-flight gauge. Call the returned func when done.
func (m *Metrics) RequestStarted() func() {
	m.inFlight.Inc()
	return m.inFlight.Dec
}

// ObserveResponse records a finished response. Unknown methods are
// collapsed into "OTHER" to bound label cardinality.
func (m *Metrics) ObserveResponse(method string, code int, bytes int64, d time.Duration) {
	method = methodLabel(method)
	m.responses.WithLabelValues(strconv.Itoa(code), method).Inc()
	if bytes > 0 {
		m.bytes.Add(float64(bytes))
	}
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

// Resolved implements static.Observer.
func (m *Metrics) Resolved(outcome static.Outcome) {
	m.resolutions.WithLabelValues(string(outcome)).Inc()
}

// CacheLookup implements static.Observer.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
		http.MethodConnect, http.MethodTrace:
		return method
	default:
		return "OTHER"
	}
}
