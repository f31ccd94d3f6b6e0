package static

import "errors"

var (
	// ErrInvalidPath is returned when a request path is malformed or tries to
	// escape the root directory. The engine treats it as a declined request.
	ErrInvalidPath = errors.New("static: invalid request path")

	// ErrNotFound is returned when a request path does not resolve to a
	// regular file, either directly or through a default document.
	ErrNotFound = errors.New("static: file not found")

	// ErrRangeNotSatisfiable is returned when none of the requested byte
	// ranges overlap the file.
	ErrRangeNotSatisfiable = errors.New("static: range not satisfiable")

	// ErrInvalidRoot is returned at construction time when the configured root
	// is missing or is not a directory.
	ErrInvalidRoot = errors.New("static: invalid root directory")

	// errMalformedRange marks a Range header that cannot be parsed.
	// Such headers are ignored and the full body is served.
	errMalformedRange = errors.New("static: malformed range header")
)
