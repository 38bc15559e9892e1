// Package logger builds the application's log/slog logger.
//
// Records go to stdout as JSON (or text) and, when SENTRY_DSN is set, to
// Sentry as well: errors create issues, warnings are kept as logs.
// Request-scoped values are attached by context extractors:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "comment stored", slog.Int64("article_id", id))
//	// {"level":"INFO","msg":"comment stored","article_id":3,"request_id":"01J..."}
//
// A ContextExtractor returns false to skip its attribute for a record.
// NewLogHandlerDecorator wraps any slog.Handler with extractors, and NewNope
// returns a logger that discards everything, for tests.
//
// # Configuration
//
//	LOG_LEVEL          - debug, info, warn or error (default: info)
//	LOG_FORMAT         - json or text (default: json)
//	SENTRY_DSN         - enables Sentry when set
//	SENTRY_ENVIRONMENT - Sentry environment (default: production)
//	SENTRY_WARNINGS    - ship warnings as Sentry logs (default: true)
package logger
