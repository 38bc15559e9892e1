package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/inkwell/internal"
	"github.com/dmitrymomot/inkwell/internal/blog"
	"github.com/dmitrymomot/inkwell/internal/config"
	"github.com/dmitrymomot/inkwell/internal/locale"
	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/internal/tasks"
	"github.com/dmitrymomot/inkwell/internal/views"
	"github.com/dmitrymomot/inkwell/middlewares"
	"github.com/dmitrymomot/inkwell/pkg/cache"
	"github.com/dmitrymomot/inkwell/pkg/cookie"
	"github.com/dmitrymomot/inkwell/pkg/db"
	"github.com/dmitrymomot/inkwell/pkg/job"
	"github.com/dmitrymomot/inkwell/pkg/logger"
	"github.com/dmitrymomot/inkwell/pkg/mailer"
	"github.com/dmitrymomot/inkwell/pkg/mailer/resend"
	"github.com/dmitrymomot/inkwell/pkg/mailer/sendmail"
	"github.com/dmitrymomot/inkwell/pkg/oauth"
	"github.com/dmitrymomot/inkwell/pkg/redis"
	"github.com/dmitrymomot/inkwell/pkg/router"
	"github.com/dmitrymomot/inkwell/pkg/session"
	"github.com/dmitrymomot/inkwell/pkg/storage"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 20 * time.Second
	maxFormMemory   = 32 << 20
	maxBody         = 64 << 20
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server and the background workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	cfg, log := e.cfg, e.log

	rdb, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		e.pool.Close()
		return fmt.Errorf("connect redis: %w", err)
	}
	ready := false
	defer func() {
		if !ready {
			_ = rdb.Close()
			e.pool.Close()
		}
	}()

	queries := repository.New(e.pool)
	loc := locale.New(cfg.App.Locale)
	renderer := views.NewRenderer(cfg.App.Theme, views.WithLocale(loc))

	jobs, err := job.NewManager(e.pool,
		job.WithLogger(log),
		job.WithMaxWorkers(cfg.Job.MaxWorkers),
		job.WithQueue(tasks.MailQueue, cfg.Job.MailWorkers),
		job.WithTask(tasks.NewSendCommentConfirmation(newMailer(cfg), log)),
		job.WithScheduledTask(tasks.NewPurgeUnconfirmedComments(queries, log)),
	)
	if err != nil {
		return err
	}

	deps := blog.Deps{
		Queries:      queries,
		Renderer:     renderer,
		Locale:       loc,
		SidebarCache: cache.NewRedis[views.Sidebar](rdb, nil, cache.WithPrefix("inkwell:cache")),
		Jobs:         jobs,
		Logger:       log,
		BaseURL:      cfg.App.BaseURL,
	}
	if cfg.Storage.Enabled() {
		if deps.Storage, err = storage.New(cfg.Storage); err != nil {
			return err
		}
	} else {
		log.WarnContext(ctx, "no S3 bucket configured, media uploads are disabled")
	}
	if cfg.OAuth.Enabled() {
		gh, err := oauth.NewGitHubProvider(cfg.OAuth)
		if err != nil {
			return err
		}
		deps.GitHub = gh
	}

	sessions := session.NewManager(
		session.NewCacheStore(cache.NewRedis[*session.Session](rdb, nil, cache.WithPrefix("inkwell:session"))),
		cookie.New(cookie.WithSecret(cfg.App.CookieSecret), cookie.WithSecure(cfg.App.SecureCookies)),
	)

	pipeline := router.Chain(
		middlewares.Recover(log),
		middlewares.RequestID(),
		middlewares.Logger(log),
		middlewares.Timeout(log, requestTimeout),
		middlewares.Session(sessions),
		blog.Module(blog.NewContainer(deps)),
	)

	app := internal.New(pipeline,
		internal.WithLogger(log),
		internal.WithErrorRenderer(blog.ErrorPages(renderer, loc)),
		internal.WithAssets(http.Dir(cfg.App.ThemesDir)),
		internal.WithUploadLimits(maxFormMemory, maxBody),
		internal.WithReadinessCheck("postgres", db.Healthcheck(e.pool)),
		internal.WithReadinessCheck("redis", redis.Healthcheck(rdb)),
		internal.WithReadinessCheck("jobs", job.Healthcheck(jobs)),
	)

	ready = true
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// stopped by the shutdown hook, not by ctx
		return jobs.Start(context.WithoutCancel(ctx))
	})
	g.Go(func() error {
		return app.Run(ctx, cfg.App.Addr,
			internal.ShutdownTimeout(shutdownTimeout),
			internal.ShutdownHook(jobs.Shutdown()),
			internal.ShutdownHook(redis.Shutdown(rdb)),
			internal.ShutdownHook(db.Shutdown(e.pool)),
			internal.ShutdownHook(logger.SentryFlush(2*time.Second)),
		)
	})

	if err := g.Wait(); err != nil {
		log.ErrorContext(ctx, "server stopped", slog.Any("error", err))
		return err
	}
	return nil
}

func newMailer(cfg *config.Config) *mailer.Mailer {
	var sender mailer.Sender
	switch cfg.App.MailTransport {
	case config.TransportResend:
		sender = resend.New(cfg.Resend)
	default:
		sender = sendmail.New(cfg.Sendmail)
	}
	return mailer.New(sender, mailer.NewRenderer(tasks.Templates(), mailer.RendererConfig{}), cfg.Mailer)
}
