package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/inkwell/internal"
	"github.com/dmitrymomot/inkwell/internal/locale"
	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/internal/views"
	"github.com/dmitrymomot/inkwell/middlewares"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/oauth"
	"github.com/dmitrymomot/inkwell/pkg/router"
	"github.com/dmitrymomot/inkwell/pkg/session"
)

// Users is the user lookup the controller needs.
type Users interface {
	FindUserByUsername(ctx context.Context, username string) (*repository.User, error)
	FindUserByGitHubLogin(ctx context.Context, login string) (*repository.User, error)
}

// Controller serves /login, /login/github and /login/github/callback.
type Controller struct {
	users  Users
	views  *views.Renderer
	locale *locale.Locale
	github oauth.Provider
	logger *slog.Logger
}

type Option func(*Controller)

// WithGitHub enables sign-in through GitHub.
func WithGitHub(p oauth.Provider) Option {
	return func(c *Controller) { c.github = p }
}

func NewController(users Users, renderer *views.Renderer, loc *locale.Locale, log *slog.Logger, opts ...Option) *Controller {
	c := &Controller{users: users, views: renderer, locale: loc, logger: log}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Serve(req *message.ServerRequest, resp *message.Response, _ router.Next) (*message.Response, error) {
	sess := middlewares.GetSession(req)
	if sess == nil {
		return nil, ErrNoSession
	}

	chunks := router.Chunkify(router.Tail(req))
	switch {
	case chunks[0] == "":
		if req.Method() == http.MethodPost {
			return c.login(req, resp, sess)
		}
		return c.form(req, resp, views.Login{})
	case chunks[0] == "github" && c.github != nil && len(chunks) == 1:
		return c.githubStart(sess), nil
	case chunks[0] == "github" && c.github != nil && len(chunks) == 2 && chunks[1] == "callback":
		return c.githubCallback(req, resp, sess)
	}
	return nil, internal.ErrNotFound("")
}

func (c *Controller) form(req *message.ServerRequest, resp *message.Response, data views.Login) (*message.Response, error) {
	data.GitHubEnabled = c.github != nil
	return c.views.RenderPage(req.Context(), resp, views.PageLayout, views.PageLogin,
		Layout(req, c.locale.T(locale.MsgPageTitleLogin)), data)
}

func (c *Controller) login(req *message.ServerRequest, resp *message.Response, sess *session.Session) (*message.Response, error) {
	username := req.PostValue("username")
	password := req.PostValue("password")
	data := views.Login{Username: username}

	if username == "" || password == "" {
		data.Error = c.locale.T(locale.MsgMissingCredentials)
		return c.form(req, resp, data)
	}

	u, err := c.users.FindUserByUsername(req.Context(), username)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		data.Error = c.locale.T(locale.MsgUnknownUser)
		return c.form(req, resp, data)
	case err != nil:
		return nil, err
	}

	if !CheckPassword(u, password) {
		data.Error = c.locale.T(locale.MsgWrongPassword)
		return c.form(req, resp, data)
	}

	SignIn(sess, u)
	c.logger.InfoContext(req.Context(), "user signed in", slog.Int64("user_id", u.ID))
	return message.NewRedirectResponse(popRedirect(sess)), nil
}

func (c *Controller) githubStart(sess *session.Session) *message.Response {
	state := uuid.NewString()
	sess.Set(keyOAuthState, state)
	return message.NewRedirectResponse(c.github.AuthCodeURL(state))
}

func (c *Controller) githubCallback(req *message.ServerRequest, resp *message.Response, sess *session.Session) (*message.Response, error) {
	ctx := req.Context()
	state, _ := sess.Pop(keyOAuthState)

	fail := func(err error) (*message.Response, error) {
		c.logger.WarnContext(ctx, "github sign-in failed", slog.Any("error", err))
		return c.form(req, resp, views.Login{Error: c.locale.T(locale.MsgGitHubFailed)})
	}

	if state == "" || req.QueryParam("state") != state {
		return fail(oauth.ErrStateMismatch)
	}
	token, err := c.github.Exchange(ctx, req.QueryParam("code"))
	if err != nil {
		return fail(err)
	}
	info, err := c.github.FetchUserInfo(ctx, token)
	if err != nil {
		return fail(err)
	}

	u, err := c.users.FindUserByGitHubLogin(ctx, info.Login)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.form(req, resp, views.Login{Error: c.locale.T(locale.MsgGitHubUnknown, info.Login)})
	case err != nil:
		return nil, err
	}

	SignIn(sess, u)
	c.logger.InfoContext(ctx, "user signed in", slog.Int64("user_id", u.ID), slog.String("via", c.github.Name()))
	return message.NewRedirectResponse(popRedirect(sess)), nil
}

// Logout clears the identity and redirects to the stored target or "/".
func Logout() router.Handler {
	return router.HandlerFunc(func(req *message.ServerRequest, _ *message.Response, _ router.Next) (*message.Response, error) {
		sess := middlewares.GetSession(req)
		if sess == nil {
			return nil, ErrNoSession
		}
		SignOut(sess)
		return message.NewRedirectResponse(popRedirect(sess)), nil
	})
}
