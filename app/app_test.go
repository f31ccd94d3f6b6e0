package app_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webroot/app"
	"github.com/dmitrymomot/webroot/core/logger"
)

func newSite(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"index.html":        "<html>home</html>",
		"css/site.css":      "body{}",
		"docs/default.htm":  "<html>docs</html>",
		"notes.md":          "# notes",
		".env":              "SECRET=1",
		"errors/404.html":   "<html>custom 404</html>",
		"downloads/big.bin": string(bytes.Repeat([]byte("x"), 1000)),
	}
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func testConfig(root string) app.Config {
	cfg := app.DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Static.Root = root
	cfg.Metrics.ProcessMetrics = false
	return cfg
}

func newTestServer(t *testing.T, cfg app.Config) *httptest.Server {
	t.Helper()

	a, err := app.New(app.WithConfig(cfg), app.WithLogger(logger.Nop()))
	require.NoError(t, err)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, method, path string, headers map[string]string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestApp_ServesFiles(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(newSite(t)))

	tests := []struct {
		name        string
		path        string
		status      int
		body        string
		contentType string
	}{
		{"root default document", "/", http.StatusOK, "<html>home</html>", "text/html; charset=utf-8"},
		{"nested default document", "/docs/", http.StatusOK, "<html>docs</html>", "text/html; charset=utf-8"},
		{"css", "/css/site.css", http.StatusOK, "body{}", "text/css; charset=utf-8"},
		{"missing", "/nope.txt", http.StatusNotFound, "", ""},
		{"hidden file declined", "/.env", http.StatusNotFound, "", ""},
		{"encoded traversal", "/%2e%2e/etc/passwd", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, body := get(t, srv, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				assert.Equal(t, tt.body, body)
			}
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			}
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
		})
	}
}

func TestApp_ConditionalAndRange(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(newSite(t)))

	resp, _ := get(t, srv, http.MethodGet, "/downloads/big.bin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "bytes", resp.Header.Get("Accept-Ranges"))

	resp, body := get(t, srv, http.MethodGet, "/downloads/big.bin", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	assert.Empty(t, body)

	resp, body = get(t, srv, http.MethodGet, "/downloads/big.bin", map[string]string{"Range": "bytes=0-99"})
	assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "bytes 0-99/1000", resp.Header.Get("Content-Range"))
	assert.Len(t, body, 100)

	resp, _ = get(t, srv, http.MethodGet, "/downloads/big.bin", map[string]string{"Range": "bytes=5000-"})
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, resp.StatusCode)
	assert.Equal(t, "bytes */1000", resp.Header.Get("Content-Range"))
}

func TestApp_MethodsAndProbes(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(newSite(t)))

	resp, body := get(t, srv, http.MethodHead, "/index.html", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, "17", resp.Header.Get("Content-Length"))

	resp, _ = get(t, srv, http.MethodPost, "/index.html", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = get(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ALIVE", body)

	resp, body = get(t, srv, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "READY", body)

	resp, _ = get(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = get(t, srv, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `webroot_static_resolutions_total{outcome="file"} 1`)
	assert.Contains(t, body, `webroot_static_resolutions_total{outcome="default_document"} 1`)
	assert.Contains(t, body, "webroot_http_requests_in_flight")
}

func TestApp_NotFoundPageAndRedirect(t *testing.T) {
	t.Parallel()

	root := newSite(t)
	cfg := testConfig(root)
	cfg.Static.NotFoundPage = filepath.Join(root, "errors", "404.html")
	cfg.Static.RedirectTrailingSlash = true
	srv := newTestServer(t, cfg)

	resp, body := get(t, srv, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "<html>custom 404</html>", body)

	resp, _ = get(t, srv, http.MethodGet, "/docs?x=1", nil)
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "/docs/?x=1", resp.Header.Get("Location"))
}

func TestApp_MIMEOverrides(t *testing.T) {
	t.Parallel()

	root := newSite(t)
	mimeFile := filepath.Join(t.TempDir(), "mime.yaml")
	require.NoError(t, os.WriteFile(mimeFile, []byte(".md: text/plain; charset=utf-8\n"), 0o644))

	cfg := testConfig(root)
	cfg.Static.MIMEFile = mimeFile
	srv := newTestServer(t, cfg)

	resp, _ := get(t, srv, http.MethodGet, "/notes.md", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestApp_ConfigErrors(t *testing.T) {
	t.Parallel()

	root := newSite(t)

	tests := []struct {
		name   string
		mutate func(*app.Config)
	}{
		{"missing root", func(c *app.Config) { c.Static.Root = filepath.Join(root, "nope") }},
		{"bad log level", func(c *app.Config) { c.LogLevel = "loud" }},
		{"bad log format", func(c *app.Config) { c.LogFormat = "xml" }},
		{"bad security preset", func(c *app.Config) { c.HTTP.SecurityHeaders = "paranoid" }},
		{"missing mime file", func(c *app.Config) { c.Static.MIMEFile = filepath.Join(root, "none.yaml") }},
		{"missing not found page", func(c *app.Config) { c.Static.NotFoundPage = filepath.Join(root, "none.html") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(root)
			tt.mutate(&cfg)
			_, err := app.New(app.WithConfig(cfg))
			assert.Error(t, err)
		})
	}
}

func TestApp_NilOptions(t *testing.T) {
	t.Parallel()

	_, err := app.New(app.WithLogger(nil))
	assert.Error(t, err)
	_, err = app.New(app.WithServer(nil))
	assert.Error(t, err)
	_, err = app.New(app.WithMetrics(nil))
	assert.Error(t, err)
	_, err = app.New(app.WithEngine(nil))
	assert.Error(t, err)
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	a, err := app.New(app.WithConfig(testConfig(newSite(t))), app.WithLogger(logger.Nop()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case <-a.Server().Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + a.Server().Addr() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
