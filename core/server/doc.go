// Package server wraps http.Server with graceful shutdown, functional
// options and defaults suited to serving static content.
//
// # Key Features
//
//   - Graceful shutdown with configurable timeout
//   - TLS with Mozilla intermediate or modern profiles
//   - Environment driven Config (SERVER_* variables)
//   - Bound address discovery for ":0" listeners
//   - Run adapter for golang.org/x/sync/errgroup
//
// The write timeout defaults to zero so long file downloads are not cut
// off; a slow client is bounded by ReadHeaderTimeout and IdleTimeout and
// a departed one by request context cancellation.
//
// # Basic Usage
//
//	srv := server.New(":8080",
//		server.WithShutdownTimeout(10*time.Second),
//		server.WithLogger(log),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	if err := g.Wait(); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// # Configuration
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// Setting SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE enables HTTPS with
// the profile named by SERVER_TLS_PROFILE.
package server
