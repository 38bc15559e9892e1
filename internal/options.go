package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/inkwell/pkg/health"
)

// Option configures an App.
type Option func(*App)

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithErrorRenderer sets how 404 and 500 pages are rendered. Without one a
// plain text body is written.
func WithErrorRenderer(fn ErrorRenderer) Option {
	return func(a *App) { a.errorPages = fn }
}

// WithReadinessCheck adds a named check to the readiness probe.
//
//	internal.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return func(a *App) {
		if a.checks == nil {
			a.checks = make(health.Checks)
		}
		a.checks[name] = fn
	}
}

// WithAssets serves fs under /assets/. The first path segment is the theme.
func WithAssets(fs http.FileSystem) Option {
	return func(a *App) { a.assets = fs }
}

// WithUploadLimits caps multipart memory and the buffered body size.
func WithUploadLimits(maxMemory, bodyLimit int64) Option {
	return func(a *App) {
		a.maxMemory = maxMemory
		a.bodyLimit = bodyLimit
	}
}

// RunOption configures App.Run.
type RunOption func(*runtimeConfig)

// ShutdownTimeout bounds the server shutdown and the hooks together.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runtimeConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// ShutdownHook runs after the server stopped, in registration order.
//
//	internal.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runtimeConfig) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// WithHandler replaces the served handler, for tests.
func WithHandler(h http.Handler) RunOption {
	return func(c *runtimeConfig) { c.handler = h }
}

// WithListener serves on ln instead of listening on the address.
func WithListener(ln net.Listener) RunOption {
	return func(c *runtimeConfig) { c.listener = ln }
}
