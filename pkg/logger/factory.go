package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the application logger: stdout in the configured format, plus
// Sentry when cfg.Sentry.DSN is set. Extractors run for both destinations.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return newLogger(os.Stdout, cfg, extractors...)
}

func newLogger(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	h := stdoutHandler(w, cfg)
	if cfg.Sentry.DSN != "" {
		h = withSentry(h, cfg.Sentry)
	}
	return slog.New(NewLogHandlerDecorator(h, extractors...))
}

func stdoutHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.level()}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
