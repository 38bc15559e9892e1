package health

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc matches db.Healthcheck, redis.Healthcheck and job.Healthcheck.
type CheckFunc func(ctx context.Context) error

// Checks maps a dependency name ("postgres", "redis", "jobs") to its probe.
type Checks map[string]CheckFunc

type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type settings struct {
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*settings)

// WithTimeout bounds one readiness run. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger logs every failing probe at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// Run probes every check concurrently under one deadline.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	s := settings{timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&s)
	}
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	errs := make([]error, len(names))

	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			errs[i] = checks[name](ctx)
			return nil
		})
	}
	_ = g.Wait()

	resp := &Response{Status: StatusHealthy, Checks: make(map[string]Check, len(names))}
	for i, name := range names {
		if errs[i] == nil {
			resp.Checks[name] = Check{Status: StatusHealthy}
			continue
		}
		resp.Status = StatusUnhealthy
		resp.Checks[name] = Check{Status: StatusUnhealthy, Error: errs[i].Error()}
		if s.logger != nil {
			s.logger.WarnContext(ctx, "readiness check failed", slog.String("check", name), slog.Any("error", errs[i]))
		}
	}
	return resp
}
