package app

import (
	"time"

	"github.com/dmitrymomot/webroot/core/server"
)

// Config is the complete process configuration, read from the environment.
type Config struct {
	Server  server.Config
	Static  StaticConfig
	HTTP    HTTPConfig
	Metrics MetricsConfig

	AppName   string `env:"APP_NAME" envDefault:"webroot"`
	Env       string `env:"APP_ENV" envDefault:"production"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// StaticConfig configures the file-serving engine.
type StaticConfig struct {
	Root                  string        `env:"STATIC_ROOT" envDefault:"./wwwroot"`
	DefaultDocuments      []string      `env:"STATIC_DEFAULT_DOCUMENTS" envDefault:"default.htm,default.html,index.htm,index.html" envSeparator:","`
	CaseInsensitive       bool          `env:"STATIC_CASE_INSENSITIVE" envDefault:"false"`
	MIMEFile              string        `env:"STATIC_MIME_FILE"`
	SniffUnknown          bool          `env:"STATIC_SNIFF_UNKNOWN" envDefault:"false"`
	CacheControl          string        `env:"STATIC_CACHE_CONTROL"`
	CacheSize             int           `env:"STATIC_CACHE_SIZE" envDefault:"0"`
	CacheTTL              time.Duration `env:"STATIC_CACHE_TTL" envDefault:"5s"`
	RedirectTrailingSlash bool          `env:"STATIC_REDIRECT_TRAILING_SLASH" envDefault:"false"`
	ServeHidden           bool          `env:"STATIC_SERVE_HIDDEN" envDefault:"false"`
	ChunkSize             int           `env:"STATIC_CHUNK_SIZE" envDefault:"65536"`
	NotFoundPage          string        `env:"STATIC_NOT_FOUND_PAGE"`
}

// HTTPConfig configures the router and middleware stack.
type HTTPConfig struct {
	HealthPath        string `env:"HTTP_HEALTH_PATH" envDefault:"/healthz"`
	ReadyPath         string `env:"HTTP_READY_PATH" envDefault:"/readyz"`
	SecurityHeaders   string `env:"HTTP_SECURITY_HEADERS" envDefault:"balanced"`
	TrustProxyHeaders bool   `env:"HTTP_TRUST_PROXY_HEADERS" envDefault:"false"`
	AccessLog         bool   `env:"HTTP_ACCESS_LOG" envDefault:"true"`
}

// MetricsConfig configures Prometheus exposition.
type MetricsConfig struct {
	Enabled        bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path           string `env:"METRICS_PATH" envDefault:"/metrics"`
	ProcessMetrics bool   `env:"METRICS_PROCESS" envDefault:"true"`
}

// DefaultConfig mirrors the environment defaults.
func DefaultConfig() Config {
	return Config{
		Server: server.DefaultConfig(),
		Static: StaticConfig{
			Root:             "./wwwroot",
			DefaultDocuments: []string{"default.htm", "default.html", "index.htm", "index.html"},
			CacheTTL:         5 * time.Second,
			ChunkSize:        64 << 10,
		},
		HTTP: HTTPConfig{
			HealthPath:      "/healthz",
			ReadyPath:       "/readyz",
			SecurityHeaders: "balanced",
			AccessLog:       true,
		},
		Metrics: MetricsConfig{
			Enabled:        true,
			Path:           "/metrics",
			ProcessMetrics: true,
		},
		AppName:   "webroot",
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}
}
