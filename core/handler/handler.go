package handler

import "net/http"

// Response is a function that renders HTTP responses.
// It sets headers, status code, and writes the response body.
// Rendering errors are handled by the pipeline's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// Stage is a single step of a request pipeline.
// Serve returns the response to render and true when the stage handles the request,
// or false to decline so the next stage can try.
type Stage interface {
	Serve(r *http.Request) (Response, bool)
}

// StageFunc adapts an ordinary function to the Stage interface.
type StageFunc func(r *http.Request) (Response, bool)

// Serve calls f(r).
func (f StageFunc) Serve(r *http.Request) (Response, bool) {
	return f(r)
}

// ErrorHandler handles errors returned while rendering a Response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware wraps an http.Handler to add cross-cutting functionality.
type Middleware func(next http.Handler) http.Handler

// Chain wraps h with the given middlewares.
// The first middleware in the list is the outermost one.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
