// Package static serves files from a directory tree as a request pipeline stage.
//
// The package has two halves. The Resolver maps a URL path to a regular file
// inside the root, substituting default documents for directory requests.
// The Responder writes that file with conditional-request and byte-range
// semantics. Engine combines both behind the handler.Stage contract: a request
// that does not resolve is declined so the next stage can handle it.
//
// # Features
//
//   - Default documents for directory requests, tried in configured order
//   - Strong ETag and Last-Modified validators
//   - If-None-Match, If-Modified-Since, If-Match and If-Unmodified-Since
//   - Single byte-range requests with If-Range
//   - Extension based content types with optional sniffing
//   - Streaming in fixed-size chunks that stops when the client goes away
//   - Optional case-insensitive matching and a bounded metadata cache
//
// # Basic Usage
//
//	engine, err := static.New("./wwwroot",
//		static.WithDefaultDocuments("index.html", "default.html"),
//		static.WithCacheControl("public, max-age=300"),
//	)
//	if err != nil {
//		return err
//	}
//
//	pipe := pipeline.New(pipeline.WithStages(engine))
//	http.ListenAndServe(":8080", pipe)
//
// # Path Resolution
//
// Paths containing a ".." segment, a backslash, a control character or a
// drive prefix are rejected with ErrInvalidPath. The joined path is evaluated
// for symlinks and must stay inside the root, otherwise the result is
// ErrNotFound. Symlinks that stay inside the root are followed.
//
// A path ending in "/" is a directory request. When it names a directory the
// default documents are tried in order and the first regular file wins.
// A trailing slash on a regular file does not match.
//
// Segments beginning with a dot are not served unless WithServeHidden is set.
//
// # Response Selection
//
// Responses are chosen in this order, each step short-circuiting the rest:
//
//  1. If-None-Match matches (weak comparison), or If-Modified-Since is not
//     older than Last-Modified when If-None-Match is absent: 304.
//  2. If-Match does not match (strong comparison), or If-Unmodified-Since is
//     older than Last-Modified when If-Match is absent: 412.
//  3. A Range header, unless it is malformed or If-Range does not match:
//     416 when no range overlaps the file, 206 for a single range.
//     Requests for several ranges receive the whole file.
//  4. 200 with the full body.
//
// 200, 206 and 304 responses carry Content-Type, ETag, Last-Modified and
// Accept-Ranges: bytes.
//
// # Errors
//
// Resolution failures never reach the client directly; the engine declines
// and the pipeline moves on. I/O errors before headers are written are
// returned to the caller. Failures after that wrap ErrStreamAborted and the
// connection should be dropped.
package static
