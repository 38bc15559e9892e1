package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/inkwell/pkg/health"
	"github.com/dmitrymomot/inkwell/pkg/logger"
	"github.com/dmitrymomot/inkwell/pkg/router"
)

// Default server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 60 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// Default health check paths.
const (
	LivenessPath  = "/health/live"
	ReadinessPath = "/health/ready"
)

// App hosts the request pipeline behind chi. Health probes and theme assets
// are served directly; every other request goes through the pipeline.
type App struct {
	router     chi.Router
	entry      *Entry
	logger     *slog.Logger
	checks     health.Checks
	assets     http.FileSystem
	maxMemory  int64
	bodyLimit  int64
	errorPages ErrorRenderer
}

// New builds an App around pipeline. The App is immutable after creation.
func New(pipeline router.Handler, opts ...Option) *App {
	a := &App{
		router: chi.NewRouter(),
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.entry = NewEntry(pipeline, a.logger, a.errorPages, a.maxMemory, a.bodyLimit)
	a.setupRoutes()
	return a
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context, addr string, opts ...RunOption) error {
	cfg := runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          a.logger,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return runServer(ctx, cfg)
}

func (a *App) setupRoutes() {
	a.router.Get(LivenessPath, health.LivenessHandler())
	a.router.Get(ReadinessPath, health.ReadinessHandler(a.checks, health.WithLogger(a.logger)))

	if a.assets != nil {
		a.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(a.assets)))
	}

	a.router.Handle("/*", a.entry)
	a.router.NotFound(a.entry.ServeHTTP)
	a.router.MethodNotAllowed(a.entry.ServeHTTP)
}
