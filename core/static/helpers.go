package static

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// requestPath is a validated, segmented URL path.
type requestPath struct {
	segments []string
	// dir is true for "/" and for paths ending with a slash.
	dir bool
}

// parseRequestPath validates an already percent-decoded URL path and splits it
// into segments. Empty and "." segments are dropped.
func parseRequestPath(urlPath string) (requestPath, error) {
	if urlPath == "" {
		urlPath = "/"
	}
	if urlPath[0] != '/' {
		return requestPath{}, fmt.Errorf("%w: path is not rooted", ErrInvalidPath)
	}

	rp := requestPath{dir: strings.HasSuffix(urlPath, "/")}

	for _, seg := range strings.Split(urlPath[1:], "/") {
		if seg == "" || seg == "." {
			continue
		}
		if err := validateSegment(seg); err != nil {
			return requestPath{}, err
		}
		rp.segments = append(rp.segments, seg)
	}

	if len(rp.segments) == 0 {
		rp.dir = true
	}

	return rp, nil
}

// validateSegment rejects traversal, control characters, separators other than
// the URL slash, and anything that looks like a volume or drive prefix.
func validateSegment(seg string) error {
	if seg == ".." {
		return fmt.Errorf("%w: parent directory segment", ErrInvalidPath)
	}
	for _, r := range seg {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: control character in path", ErrInvalidPath)
		}
		if r == '\\' {
			return fmt.Errorf("%w: backslash in path", ErrInvalidPath)
		}
	}
	if len(seg) >= 2 && seg[1] == ':' && isASCIILetter(seg[0]) {
		return fmt.Errorf("%w: drive prefix in path", ErrInvalidPath)
	}
	if filepath.IsAbs(seg) || filepath.VolumeName(seg) != "" {
		return fmt.Errorf("%w: absolute segment", ErrInvalidPath)
	}
	return nil
}

// checkEscapedPath rejects a raw request path whose segments decode to a
// parent reference, a separator or a NUL. Decoding "%2f" would otherwise move
// a segment boundary after the path was split by the client.
func checkEscapedPath(escaped string) error {
	for _, seg := range strings.Split(escaped, "/") {
		if !strings.Contains(seg, "%") {
			continue
		}
		lower := strings.ToLower(seg)
		if strings.Contains(lower, "%2f") || strings.Contains(lower, "%5c") || strings.Contains(lower, "%00") {
			return fmt.Errorf("%w: encoded separator in path", ErrInvalidPath)
		}
		dec, err := url.PathUnescape(seg)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPath, err)
		}
		if dec == ".." {
			return fmt.Errorf("%w: encoded parent directory segment", ErrInvalidPath)
		}
	}
	return nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// hasHiddenSegment reports whether any segment starts with a dot.
func (rp requestPath) hasHiddenSegment() bool {
	for _, seg := range rp.segments {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// isWithinRoot reports whether path is root itself or lexically inside it.
// Both arguments must be clean absolute paths.
func isWithinRoot(root, path string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// validateRoot checks that root exists and is a directory, and returns its
// absolute path with symlinks evaluated.
func validateRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	info, err := os.Stat(real)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	return real, nil
}
