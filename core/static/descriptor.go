package static

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Descriptor holds the response metadata derived from an Entry.
type Descriptor struct {
	ContentType string
	// ETag is a strong validator, quoted.
	ETag string
	// LastModified is truncated to whole seconds, the precision of HTTP dates.
	LastModified time.Time
	Size         int64
}

// MakeETag builds a strong entity tag from modification time, size and file identity.
func MakeETag(e Entry) string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(strconv.FormatInt(e.ModTime.UnixNano(), 16))
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(e.Size, 16))
	if e.Identity != 0 {
		b.WriteByte('-')
		b.WriteString(strconv.FormatUint(e.Identity, 16))
	}
	b.WriteByte('"')
	return b.String()
}

func (rs *Responder) describe(e Entry) Descriptor {
	return Descriptor{
		ContentType:  rs.contentType(e),
		ETag:         MakeETag(e),
		LastModified: e.ModTime.UTC().Truncate(time.Second),
		Size:         e.Size,
	}
}

func (rs *Responder) contentType(e Entry) string {
	if typ, ok := rs.mime.Lookup(e.Name); ok {
		return typ
	}
	if rs.sniffUnknown {
		if mt, err := mimetype.DetectFile(e.Path); err == nil {
			return mt.String()
		}
	}
	return DefaultContentType
}

// setHeaders writes the validator and caching headers shared by 200, 206 and 304.
func (rs *Responder) setHeaders(h http.Header, d Descriptor) {
	h.Set("Content-Type", d.ContentType)
	h.Set("ETag", d.ETag)
	h.Set("Last-Modified", d.LastModified.Format(http.TimeFormat))
	h.Set("Accept-Ranges", "bytes")
	if rs.cacheControl != "" {
		h.Set("Cache-Control", rs.cacheControl)
	}
}
