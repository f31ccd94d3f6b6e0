// Package pipeline composes request stages into an http.Handler.
//
// Stages run in the order they were given. Each one either returns a
// response, which ends dispatch, or declines. When all stages decline the
// fallback handler answers, 404 unless WithFallback says otherwise:
//
//	engine := static.MustNew("./wwwroot")
//
//	p := pipeline.New(
//		pipeline.WithStages(engine, apiStage),
//		pipeline.WithFallback(notFoundPage),
//		pipeline.WithLogger(log),
//	)
//
// There is no registration or reflection: the pipeline is the slice of stages.
//
// # Errors
//
// A response that returns an error is passed to the error handler. The
// default one answers 500 if nothing has been written yet. Once headers are
// out, it aborts the connection with http.ErrAbortHandler so clients see a
// failed transfer rather than a short body.
package pipeline
