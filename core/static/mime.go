package static

import (
	"path/filepath"
	"strings"
)

// DefaultContentType is served for files whose extension is unknown.
const DefaultContentType = "application/octet-stream"

var builtinMIMETypes = map[string]string{
	".aac":         "audio/aac",
	".apng":        "image/apng",
	".atom":        "application/atom+xml",
	".avif":        "image/avif",
	".bmp":         "image/bmp",
	".css":         "text/css; charset=utf-8",
	".csv":         "text/csv; charset=utf-8",
	".eot":         "application/vnd.ms-fontobject",
	".epub":        "application/epub+zip",
	".gif":         "image/gif",
	".gz":          "application/gzip",
	".htm":         "text/html; charset=utf-8",
	".html":        "text/html; charset=utf-8",
	".ico":         "image/x-icon",
	".ics":         "text/calendar",
	".jpeg":        "image/jpeg",
	".jpg":         "image/jpeg",
	".js":          "text/javascript; charset=utf-8",
	".json":        "application/json",
	".jsonld":      "application/ld+json",
	".m4a":         "audio/mp4",
	".map":         "application/json",
	".md":          "text/markdown; charset=utf-8",
	".mjs":         "text/javascript; charset=utf-8",
	".mp3":         "audio/mpeg",
	".mp4":         "video/mp4",
	".mpeg":        "video/mpeg",
	".oga":         "audio/ogg",
	".ogg":         "audio/ogg",
	".ogv":         "video/ogg",
	".otf":         "font/otf",
	".pdf":         "application/pdf",
	".png":         "image/png",
	".rss":         "application/rss+xml",
	".svg":         "image/svg+xml",
	".tar":         "application/x-tar",
	".tif":         "image/tiff",
	".tiff":        "image/tiff",
	".ttf":         "font/ttf",
	".txt":         "text/plain; charset=utf-8",
	".wasm":        "application/wasm",
	".wav":         "audio/wav",
	".weba":        "audio/webm",
	".webm":        "video/webm",
	".webmanifest": "application/manifest+json",
	".webp":        "image/webp",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".xhtml":       "application/xhtml+xml",
	".xml":         "application/xml",
	".zip":         "application/zip",
}

// MIMETable maps file extensions to content types.
// It is immutable after construction and safe for concurrent use.
type MIMETable struct {
	types map[string]string
}

// DefaultMIMETable returns a table with the built-in extension mappings.
func DefaultMIMETable() *MIMETable {
	return NewMIMETable(nil)
}

// NewMIMETable returns the built-in table extended with overrides.
// Override keys are normalized to lower case with a leading dot,
// so "JS", ".js" and "js" are equivalent. An empty value removes the mapping.
func NewMIMETable(overrides map[string]string) *MIMETable {
	types := make(map[string]string, len(builtinMIMETypes)+len(overrides))
	for ext, typ := range builtinMIMETypes {
		types[ext] = typ
	}
	for ext, typ := range overrides {
		ext = normalizeExt(ext)
		if ext == "" {
			continue
		}
		if typ == "" {
			delete(types, ext)
			continue
		}
		types[ext] = typ
	}
	return &MIMETable{types: types}
}

// Lookup returns the content type for the extension of name.
func (t *MIMETable) Lookup(name string) (string, bool) {
	ext := normalizeExt(filepath.Ext(name))
	if ext == "" {
		return "", false
	}
	typ, ok := t.types[ext]
	return typ, ok
}

// Len returns the number of mappings.
func (t *MIMETable) Len() int {
	return len(t.types)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}
