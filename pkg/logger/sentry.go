package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// WarningsAsLogs also ships warnings as Sentry logs; errors always
	// create issues.
	WarningsAsLogs bool `env:"SENTRY_WARNINGS" envDefault:"true"`
}

// withSentry fans records out to next and to Sentry. When the SDK cannot be
// initialized next is returned alone.
func withSentry(next slog.Handler, cfg SentryConfig) slog.Handler {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(next).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return next
	}

	logLevel := []slog.Level{slog.LevelError}
	if cfg.WarningsAsLogs {
		logLevel = []slog.Level{slog.LevelWarn, slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return fanout{next, sentryHandler}
}

// SentryFlush returns a shutdown hook that drains buffered Sentry events.
func SentryFlush(timeout time.Duration) func(ctx context.Context) error {
	return func(context.Context) error {
		sentry.Flush(timeout)
		return nil
	}
}
