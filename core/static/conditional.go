package static

import (
	"net/http"
	"strings"
	"time"
)

type condResult int

const (
	condNone condResult = iota
	condNotModified
	condPreconditionFailed
)

// evalPreconditions checks the conditional request headers against d.
// If-None-Match and If-Modified-Since are evaluated first and yield 304;
// If-Match and If-Unmodified-Since yield 412.
func evalPreconditions(r *http.Request, d Descriptor) condResult {
	if inm := r.Header.Get("If-None-Match"); inm != "" {
		if etagListMatches(inm, d.ETag, false) {
			return condNotModified
		}
	} else if ims := r.Header.Get("If-Modified-Since"); ims != "" {
		if t, err := http.ParseTime(ims); err == nil && !d.LastModified.After(t) {
			return condNotModified
		}
	}

	if im := r.Header.Get("If-Match"); im != "" {
		if !etagListMatches(im, d.ETag, true) {
			return condPreconditionFailed
		}
	} else if ius := r.Header.Get("If-Unmodified-Since"); ius != "" {
		if t, err := http.ParseTime(ius); err == nil && d.LastModified.After(t) {
			return condPreconditionFailed
		}
	}

	return condNone
}

// ifRangeAllows reports whether a Range header may be honored.
// An If-Range entity tag must match strongly; a date must equal Last-Modified.
func ifRangeAllows(r *http.Request, d Descriptor) bool {
	ir := strings.TrimSpace(r.Header.Get("If-Range"))
	if ir == "" {
		return true
	}

	if strings.HasPrefix(ir, `"`) || strings.HasPrefix(ir, "W/") {
		tag, _ := scanETag(ir)
		return tag != "" && etagStrongMatch(tag, d.ETag)
	}

	t, err := http.ParseTime(ir)
	if err != nil {
		return false
	}
	return t.Equal(d.LastModified.Truncate(time.Second))
}

// etagListMatches reports whether header, a "*" or a comma separated list of
// entity tags, matches etag. strong selects the strong comparison function.
func etagListMatches(header, etag string, strong bool) bool {
	header = strings.TrimSpace(header)
	if header == "*" {
		return true
	}

	for header != "" {
		header = strings.TrimLeft(header, " \t,")
		if header == "" {
			break
		}
		var tag string
		tag, header = scanETag(header)
		if tag == "" {
			// Skip a malformed element up to the next comma.
			if i := strings.IndexByte(header, ','); i >= 0 {
				header = header[i+1:]
				continue
			}
			break
		}
		if strong && etagStrongMatch(tag, etag) {
			return true
		}
		if !strong && etagWeakMatch(tag, etag) {
			return true
		}
	}
	return false
}

// scanETag reads one entity tag from the start of s and returns it with the
// unread remainder. A malformed tag yields "" and s unchanged.
func scanETag(s string) (tag, remain string) {
	start := 0
	if strings.HasPrefix(s, "W/") {
		start = 2
	}
	if len(s[start:]) < 2 || s[start] != '"' {
		return "", s
	}
	for i := start + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			return s[:i+1], s[i+1:]
		case c == 0x21 || (c >= 0x23 && c <= 0x7e) || c >= 0x80:
		default:
			return "", s
		}
	}
	return "", s
}

func etagStrongMatch(a, b string) bool {
	return a == b && a != "" && !strings.HasPrefix(a, "W/")
}

func etagWeakMatch(a, b string) bool {
	return strings.TrimPrefix(a, "W/") == strings.TrimPrefix(b, "W/")
}
