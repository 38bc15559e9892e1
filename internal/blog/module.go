// Package blog wires the site together: the root router that splits the
// path over the controllers, and the blog pages themselves.
package blog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/inkwell/internal/auth"
	"github.com/dmitrymomot/inkwell/internal/comments"
	"github.com/dmitrymomot/inkwell/internal/locale"
	"github.com/dmitrymomot/inkwell/internal/media"
	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/internal/rest"
	"github.com/dmitrymomot/inkwell/internal/views"
	"github.com/dmitrymomot/inkwell/pkg/cache"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/oauth"
	"github.com/dmitrymomot/inkwell/pkg/router"
	"github.com/dmitrymomot/inkwell/pkg/storage"
)

var errNoStorage = errors.New("blog: no media storage configured")

// Service ids in the container.
const (
	ServiceBlog     = "BlogController"
	ServiceComments = "CommentsController"
	ServiceMedia    = "MediaController"
	ServiceAuth     = "AuthController"
	ServiceAdmin    = "AdminCategories"
	ServiceSidebars = "Sidebars"
)

// Module is the root router:
//
//	/login/...     login form and GitHub sign-in
//	/logout        sign out
//	/commenter/... commenter lookup
//	/mail          empty page
//	/media/...     uploads, admins only
//	/admin/...     REST admin, admins only
//	anything else  blog pages
func Module(c *router.Container) router.Handler {
	return router.New(router.Segments{
		Routes: map[string]router.Handler{
			"login":     router.Lazy(c, ServiceAuth),
			"logout":    auth.Logout(),
			"commenter": router.Lazy(c, ServiceComments),
			"media":     auth.RequireAdmin(router.Lazy(c, ServiceMedia)),
			"admin":     auth.RequireAdmin(router.Lazy(c, ServiceAdmin)),
			"mail":      emptyPage(),
		},
		Default: router.Lazy(c, ServiceBlog),
	})
}

// emptyPage answers with the response it was handed. A shared prepared
// response would be written to by the middleware of every request.
func emptyPage() router.Handler {
	return router.HandlerFunc(func(_ *message.ServerRequest, resp *message.Response, _ router.Next) (*message.Response, error) {
		return resp, nil
	})
}

// Deps are the ready-made services the controllers are built from.
type Deps struct {
	Queries      *repository.Queries
	Renderer     *views.Renderer
	Locale       *locale.Locale
	SidebarCache cache.Cache[views.Sidebar]
	Storage      storage.Storage
	Jobs         comments.Enqueuer
	// GitHub is nil when GitHub sign-in is disabled.
	GitHub  oauth.Provider
	Logger  *slog.Logger
	BaseURL string
	// MaxUpload is the per-file media limit; zero keeps the default.
	MaxUpload int64
}

// NewContainer registers lazy factories for every controller built from d.
func NewContainer(d Deps) *router.Container {
	c := router.NewContainer()

	c.Factory(ServiceSidebars, func(*router.Container) (any, error) {
		return NewSidebars(d.Queries, d.SidebarCache, d.Locale), nil
	})

	c.Factory(ServiceComments, func(*router.Container) (any, error) {
		return router.Handler(comments.NewController(comments.NewStore(d.Queries), d.Jobs, d.Logger, d.BaseURL)), nil
	})

	c.Factory(ServiceBlog, func(c *router.Container) (any, error) {
		sb, err := router.Resolve[*Sidebars](c, ServiceSidebars)
		if err != nil {
			return nil, err
		}
		ch, err := router.Resolve[router.Handler](c, ServiceComments)
		if err != nil {
			return nil, err
		}
		return router.Handler(NewController(d.Queries, d.Renderer, d.Locale, sb, ch, d.Logger)), nil
	})

	c.Factory(ServiceAuth, func(*router.Container) (any, error) {
		var opts []auth.Option
		if d.GitHub != nil {
			opts = append(opts, auth.WithGitHub(d.GitHub))
		}
		return router.Handler(auth.NewController(d.Queries, d.Renderer, d.Locale, d.Logger, opts...)), nil
	})

	c.Factory(ServiceMedia, func(*router.Container) (any, error) {
		if d.Storage == nil {
			return nil, errNoStorage
		}
		return router.Handler(media.NewController(d.Queries, d.Storage, d.Logger, media.WithMaxSize(d.MaxUpload))), nil
	})

	c.Factory(ServiceAdmin, func(c *router.Container) (any, error) {
		sb, err := router.Resolve[*Sidebars](c, ServiceSidebars)
		if err != nil {
			return nil, err
		}
		cats := rest.NewCategories(d.Queries, func(ctx context.Context) {
			if err := sb.Invalidate(ctx); err != nil {
				d.Logger.WarnContext(ctx, "invalidate sidebar", slog.Any("error", err))
			}
		})
		return router.Handler(rest.NewController(d.Renderer, cats)), nil
	})

	return c
}
