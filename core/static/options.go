package static

import (
	"io"
	"log/slog"
	"time"
)

// CaseMode controls how path segments are matched against directory entries.
type CaseMode int

const (
	// CaseSensitive matches names exactly as the filesystem does.
	CaseSensitive CaseMode = iota
	// CaseInsensitive falls back to a Unicode case-folded match when the exact
	// name does not exist.
	CaseInsensitive
)

// DefaultChunkSize is the size of the buffer used to stream file bodies.
const DefaultChunkSize = 64 << 10

// DefaultDocuments returns the default-document list used when none is configured.
func DefaultDocuments() []string {
	return []string{"default.htm", "default.html", "index.htm", "index.html"}
}

// Observer receives engine events. core/metrics provides a Prometheus implementation.
type Observer interface {
	// Resolved reports the outcome of a path resolution.
	Resolved(outcome Outcome)
	// CacheLookup reports a metadata cache lookup.
	CacheLookup(hit bool)
}

// Outcome classifies the result of a path resolution.
type Outcome string

const (
	OutcomeFile            Outcome = "file"
	OutcomeDefaultDocument Outcome = "default_document"
	OutcomeNotFound        Outcome = "not_found"
	OutcomeInvalidPath     Outcome = "invalid_path"
)

type nopObserver struct{}

func (nopObserver) Resolved(Outcome) {}
func (nopObserver) CacheLookup(bool) {}

// config holds the immutable settings shared by the resolver and responder.
type config struct {
	defaultDocuments      []string
	mime                  *MIMETable
	caseMode              CaseMode
	sniffUnknown          bool
	cacheControl          string
	cacheSize             int
	cacheTTL              time.Duration
	redirectTrailingSlash bool
	serveHidden           bool
	chunkSize             int
	logger                *slog.Logger
	observer              Observer
}

// Option configures the static engine.
type Option func(*config)

func newConfig(opts []Option) *config {
	c := &config{
		defaultDocuments: DefaultDocuments(),
		caseMode:         CaseSensitive,
		cacheTTL:         5 * time.Second,
		chunkSize:        DefaultChunkSize,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer:         nopObserver{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.mime == nil {
		c.mime = DefaultMIMETable()
	}
	if c.chunkSize <= 0 {
		c.chunkSize = DefaultChunkSize
	}

	// Copy so later mutation of the caller's slice cannot leak in.
	c.defaultDocuments = append([]string(nil), c.defaultDocuments...)

	return c
}

// WithDefaultDocuments sets the ordered list of file names tried for directory requests.
// An empty list disables default documents.
func WithDefaultDocuments(names ...string) Option {
	return func(c *config) {
		c.defaultDocuments = names
	}
}

// WithMIMETable sets the extension to content-type table.
func WithMIMETable(t *MIMETable) Option {
	return func(c *config) {
		c.mime = t
	}
}

// WithCaseMode sets how path segments are matched.
func WithCaseMode(mode CaseMode) Option {
	return func(c *config) {
		c.caseMode = mode
	}
}

// WithSniffUnknown enables content sniffing for files whose extension is not
// in the MIME table. Without it such files are served as application/octet-stream.
func WithSniffUnknown(enabled bool) Option {
	return func(c *config) {
		c.sniffUnknown = enabled
	}
}

// WithCacheControl sets the Cache-Control header added to successful responses.
func WithCacheControl(value string) Option {
	return func(c *config) {
		c.cacheControl = value
	}
}

// WithMetadataCache enables a bounded cache of resolved entries.
// Cached entries are revalidated against the filesystem on every hit.
// A size of zero disables the cache.
func WithMetadataCache(size int, ttl time.Duration) Option {
	return func(c *config) {
		c.cacheSize = size
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithRedirectTrailingSlash makes directory requests without a trailing slash
// answer with a 301 redirect to the slash-terminated URL.
func WithRedirectTrailingSlash(enabled bool) Option {
	return func(c *config) {
		c.redirectTrailingSlash = enabled
	}
}

// WithServeHidden allows serving path segments that start with a dot.
func WithServeHidden(enabled bool) Option {
	return func(c *config) {
		c.serveHidden = enabled
	}
}

// WithChunkSize sets the streaming buffer size.
func WithChunkSize(size int) Option {
	return func(c *config) {
		c.chunkSize = size
	}
}

// WithLogger sets the logger used for declined requests and stream failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver sets the receiver of resolution and cache events.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}
