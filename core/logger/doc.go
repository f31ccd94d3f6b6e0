// Package logger provides structured logging helpers built on log/slog.
//
// New builds a *slog.Logger with JSON or text output, and the attribute
// helpers give common fields consistent keys across the codebase:
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithFormat(logger.FormatText),
//	)
//
//	log.Info("server started",
//		logger.Component("server"),
//		logger.Addr(":8080"),
//	)
//
// Helpers that receive a nil error or an empty string return an empty
// slog.Attr, which slog drops, so callers never need a nil check:
//
//	log.Warn("stream interrupted", logger.Path(p), logger.Error(err))
package logger
