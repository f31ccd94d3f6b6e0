// Package handler defines the small set of contracts shared by the request
// pipeline and its stages.
//
// # Core Types
//
//	// Response renders an HTTP response.
//	type Response func(w http.ResponseWriter, r *http.Request) error
//
//	// Stage either handles a request or declines it.
//	type Stage interface {
//		Serve(r *http.Request) (Response, bool)
//	}
//
// A stage that returns false has declined the request. Declining is not an
// error: the pipeline simply moves on to the next stage, and when every stage
// declines it falls back to its terminal handler (404 by default).
//
// # Writing a Stage
//
//	robots := handler.StageFunc(func(r *http.Request) (handler.Response, bool) {
//		if r.URL.Path != "/robots.txt" {
//			return nil, false
//		}
//		return func(w http.ResponseWriter, r *http.Request) error {
//			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
//			_, err := w.Write([]byte("User-agent: *\nDisallow:\n"))
//			return err
//		}, true
//	})
//
// # Middleware
//
// Middleware uses the standard library shape so it composes with any router:
//
//	h := handler.Chain(pipe,
//		middleware.Recover(log),
//		middleware.RequestID(),
//		middleware.Logging(log),
//	)
package handler
