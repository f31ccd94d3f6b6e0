package static

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// NotFoundPage returns a handler that answers every request with the given
// file and a 404 status. Use it as the pipeline fallback for a custom error page.
// The file is validated at startup and read from disk on each request, so edits
// show up without a restart.
func NotFoundPage(filePath string, opts ...Option) (http.Handler, error) {
	cleanPath := filepath.Clean(filePath)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("static: not found page: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("static: not found page %s is a directory", cleanPath)
	}

	cfg := newConfig(opts)
	contentType, ok := cfg.mime.Lookup(cleanPath)
	if !ok {
		contentType = "text/html; charset=utf-8"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := os.ReadFile(cleanPath)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		h := w.Header()
		h.Set("Content-Type", contentType)
		h.Set("Content-Length", strconv.Itoa(len(body)))
		h.Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusNotFound)

		if r.Method != http.MethodHead {
			_, _ = w.Write(body)
		}
	}), nil
}
