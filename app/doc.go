// Package app assembles the webroot process: configuration, logging,
// metrics, the static engine and its pipeline, a chi router for health and
// metrics endpoints, and the HTTP server.
//
// Request flow: middleware stack, then chi routes (health, readiness,
// metrics). Anything unmatched goes to the pipeline, where the static stage
// either serves a file or declines, and the fallback answers 404.
//
//	a, err := app.New()
//	if err != nil {
//		return err
//	}
//	return a.Run(ctx)
package app
