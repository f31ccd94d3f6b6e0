package static

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/text/cases"
)

// Entry is a request path resolved to a regular file inside the root.
type Entry struct {
	// Path is the absolute path of the file with symlinks evaluated.
	Path string
	// Name is the base name used for content-type lookup.
	Name    string
	Size    int64
	ModTime time.Time
	// Identity distinguishes files with equal size and modification time,
	// such as an inode number. Zero when the platform offers none.
	Identity uint64
	// DefaultDocument is true when the request named a directory and Path is
	// one of its default documents.
	DefaultDocument bool
}

// Resolver maps request paths to files under a root directory.
// It holds no mutable state apart from the optional metadata cache,
// which is safe for concurrent use.
type Resolver struct {
	root             string
	defaultDocuments []string
	caseMode         CaseMode
	serveHidden      bool
	cache            *expirable.LRU[string, Entry]
	observer         Observer
}

// NewResolver creates a Resolver for root.
// Returns ErrInvalidRoot if root does not exist or is not a directory.
func NewResolver(root string, opts ...Option) (*Resolver, error) {
	return newResolver(root, newConfig(opts))
}

func newResolver(root string, cfg *config) (*Resolver, error) {
	realRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		root:             realRoot,
		defaultDocuments: cfg.defaultDocuments,
		caseMode:         cfg.caseMode,
		serveHidden:      cfg.serveHidden,
		observer:         cfg.observer,
	}

	if cfg.cacheSize > 0 {
		r.cache = expirable.NewLRU[string, Entry](cfg.cacheSize, nil, cfg.cacheTTL)
	}

	return r, nil
}

// Root returns the absolute root directory with symlinks evaluated.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps a percent-decoded URL path to a regular file.
// Directory paths are resolved through the default-document list.
// Returns ErrInvalidPath for malformed or traversing paths and ErrNotFound
// when nothing matches. Neither is fatal; callers decline the request.
func (r *Resolver) Resolve(ctx context.Context, urlPath string) (Entry, error) {
	entry, err := r.resolve(ctx, urlPath)
	switch {
	case errors.Is(err, ErrInvalidPath):
		r.observer.Resolved(OutcomeInvalidPath)
	case err != nil:
		r.observer.Resolved(OutcomeNotFound)
	case entry.DefaultDocument:
		r.observer.Resolved(OutcomeDefaultDocument)
	default:
		r.observer.Resolved(OutcomeFile)
	}
	return entry, err
}

func (r *Resolver) resolve(ctx context.Context, urlPath string) (Entry, error) {
	rp, err := parseRequestPath(urlPath)
	if err != nil {
		return Entry{}, err
	}
	if !r.serveHidden && rp.hasHiddenSegment() {
		return Entry{}, fmt.Errorf("%w: hidden path", ErrNotFound)
	}

	if entry, ok := r.cached(urlPath); ok {
		return entry, nil
	}

	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	target, err := r.join(rp.segments)
	if err != nil {
		return Entry{}, err
	}

	info, err := os.Stat(target)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var entry Entry
	switch {
	case info.Mode().IsRegular():
		if rp.dir {
			return Entry{}, fmt.Errorf("%w: trailing slash on a file", ErrNotFound)
		}
		entry = newEntry(target, info)
	case info.IsDir():
		entry, err = r.defaultDocument(ctx, target)
		if err != nil {
			return Entry{}, err
		}
	default:
		return Entry{}, fmt.Errorf("%w: not a regular file", ErrNotFound)
	}

	if r.cache != nil {
		r.cache.Add(urlPath, entry)
	}

	return entry, nil
}

// join maps segments onto the root, evaluates symlinks and verifies the
// result is still inside the root.
func (r *Resolver) join(segments []string) (string, error) {
	target := r.root
	for _, seg := range segments {
		next, err := r.lookup(target, seg)
		if err != nil {
			return "", err
		}
		target = next
	}

	return r.realPath(target)
}

func (r *Resolver) realPath(p string) (string, error) {
	real, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if !isWithinRoot(r.root, real) {
		return "", fmt.Errorf("%w: path escapes root", ErrNotFound)
	}
	return real, nil
}

// lookup returns dir/name, falling back to a case-folded match of the
// directory entries in CaseInsensitive mode.
func (r *Resolver) lookup(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	if r.caseMode == CaseSensitive {
		return candidate, nil
	}

	if _, err := os.Lstat(candidate); err == nil {
		return candidate, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	// A Caser is stateful, so each lookup gets its own.
	fold := cases.Fold()
	want := fold.String(name)
	for _, e := range entries {
		if fold.String(e.Name()) == want {
			return filepath.Join(dir, e.Name()), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, fs.ErrNotExist)
}

// defaultDocument returns the first default document of dir that is a
// regular file inside the root.
func (r *Resolver) defaultDocument(ctx context.Context, dir string) (Entry, error) {
	for _, name := range r.defaultDocuments {
		if err := ctx.Err(); err != nil {
			return Entry{}, err
		}

		candidate, err := r.lookup(dir, name)
		if err != nil {
			continue
		}
		real, err := r.realPath(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(real)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		entry := newEntry(real, info)
		entry.DefaultDocument = true
		return entry, nil
	}

	return Entry{}, fmt.Errorf("%w: no default document in directory", ErrNotFound)
}

// cached returns a cache hit only if the file still has the recorded size and
// modification time.
func (r *Resolver) cached(key string) (Entry, bool) {
	if r.cache == nil {
		return Entry{}, false
	}

	entry, ok := r.cache.Get(key)
	if !ok {
		r.observer.CacheLookup(false)
		return Entry{}, false
	}

	info, err := os.Stat(entry.Path)
	if err != nil || !info.Mode().IsRegular() || info.Size() != entry.Size || !info.ModTime().Equal(entry.ModTime) {
		r.cache.Remove(key)
		r.observer.CacheLookup(false)
		return Entry{}, false
	}

	r.observer.CacheLookup(true)
	return entry, true
}

func newEntry(path string, info fs.FileInfo) Entry {
	return Entry{
		Path:     path,
		Name:     info.Name(),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Identity: fileIdentity(info),
	}
}
