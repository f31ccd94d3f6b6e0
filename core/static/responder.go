package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/dmitrymomot/webroot/core/logger"
)

// ErrStreamAborted wraps I/O failures that happen after the response headers
// were sent. The response cannot be repaired and the connection should be closed.
var ErrStreamAborted = errors.New("static: stream aborted")

// Responder writes a resolved file with conditional and range semantics.
// It is safe for concurrent use.
type Responder struct {
	mime         *MIMETable
	sniffUnknown bool
	cacheControl string
	chunkSize    int
	buffers      sync.Pool
	logger       *slog.Logger
}

// NewResponder creates a Responder from the given options.
func NewResponder(opts ...Option) *Responder {
	return newResponder(newConfig(opts))
}

func newResponder(cfg *config) *Responder {
	rs := &Responder{
		mime:         cfg.mime,
		sniffUnknown: cfg.sniffUnknown,
		cacheControl: cfg.cacheControl,
		chunkSize:    cfg.chunkSize,
		logger:       cfg.logger,
	}
	rs.buffers.New = func() any {
		buf := make([]byte, rs.chunkSize)
		return &buf
	}
	return rs
}

// Describe returns the response metadata for e.
func (rs *Responder) Describe(e Entry) Descriptor {
	return rs.describe(e)
}

// Respond writes e to w as a 200, 206, 304, 412 or 416 response.
// Errors returned before any header is written leave w untouched; errors after
// that wrap ErrStreamAborted.
func (rs *Responder) Respond(w http.ResponseWriter, r *http.Request, e Entry) error {
	d := rs.describe(e)

	switch evalPreconditions(r, d) {
	case condNotModified:
		rs.setHeaders(w.Header(), d)
		w.WriteHeader(http.StatusNotModified)
		return nil
	case condPreconditionFailed:
		writeStatus(w, http.StatusPreconditionFailed)
		return nil
	}

	status := http.StatusOK
	span := ByteRange{Start: 0, End: d.Size - 1}

	if rh := r.Header.Get("Range"); rh != "" && ifRangeAllows(r, d) {
		ranges, err := parseRange(rh, d.Size)
		switch {
		case errors.Is(err, ErrRangeNotSatisfiable):
			w.Header().Set("Content-Range", "bytes */"+strconv.FormatInt(d.Size, 10))
			writeStatus(w, http.StatusRequestedRangeNotSatisfiable)
			return nil
		case err != nil:
			// Malformed headers are ignored.
		case len(ranges) == 1:
			status = http.StatusPartialContent
			span = ranges[0]
		default:
			// Multiple ranges fall back to the full body.
		}
	}

	var f *os.File
	if r.Method != http.MethodHead && span.Length() > 0 {
		var err error
		f, err = os.Open(e.Path)
		if err != nil {
			return fmt.Errorf("open %s: %w", e.Path, err)
		}
		defer f.Close()

		if span.Start > 0 {
			if _, err := f.Seek(span.Start, io.SeekStart); err != nil {
				return fmt.Errorf("seek %s: %w", e.Path, err)
			}
		}
	}

	h := w.Header()
	rs.setHeaders(h, d)
	h.Set("Content-Length", strconv.FormatInt(span.Length(), 10))
	if status == http.StatusPartialContent {
		h.Set("Content-Range", span.ContentRange(d.Size))
	}
	w.WriteHeader(status)

	if f == nil {
		return nil
	}

	n, err := rs.stream(r.Context(), w, f, span.Length())
	if err != nil {
		rs.logger.WarnContext(r.Context(), "file stream interrupted",
			logger.Component("static"),
			logger.Path(e.Path),
			logger.BytesOut(n),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrStreamAborted, err)
	}

	return nil
}

// stream copies exactly n bytes from src to w in chunks, checking ctx between
// chunks so a disconnected client stops the read promptly.
func (rs *Responder) stream(ctx context.Context, w io.Writer, src io.Reader, n int64) (int64, error) {
	bufp := rs.buffers.Get().(*[]byte)
	defer rs.buffers.Put(bufp)
	buf := *bufp

	var written int64
	for written < n {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		chunk := int64(len(buf))
		if rem := n - written; rem < chunk {
			chunk = rem
		}

		nr, rerr := io.ReadFull(src, buf[:chunk])
		if nr > 0 {
			nw, werr := w.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, werr
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
				return written, fmt.Errorf("file shrank during read: %w", io.ErrUnexpectedEOF)
			}
			return written, rerr
		}
	}

	return written, nil
}

func writeStatus(w http.ResponseWriter, status int) {
	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, http.StatusText(status)+"\n")
}
