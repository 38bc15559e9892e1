package auth_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/inkwell/internal/auth"
	"github.com/dmitrymomot/inkwell/internal/locale"
	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/internal/views"
	"github.com/dmitrymomot/inkwell/middlewares"
	"github.com/dmitrymomot/inkwell/pkg/logger"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/oauth"
	"github.com/dmitrymomot/inkwell/pkg/router"
	"github.com/dmitrymomot/inkwell/pkg/session"
)

type fakeUsers struct {
	byName   map[string]*repository.User
	byGitHub map[string]*repository.User
}

func (f *fakeUsers) FindUserByUsername(_ context.Context, username string) (*repository.User, error) {
	if u, ok := f.byName[username]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) FindUserByGitHubLogin(_ context.Context, login string) (*repository.User, error) {
	if u, ok := f.byGitHub[login]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

type fakeGitHub struct{ login string }

func (f fakeGitHub) Name() string { return "github" }
func (f fakeGitHub) AuthCodeURL(state string, _ ...oauth2.AuthCodeOption) string {
	return "https://github.test/authorize?state=" + state
}
func (f fakeGitHub) Exchange(context.Context, string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "t"}, nil
}
func (f fakeGitHub) FetchUserInfo(context.Context, *oauth2.Token) (*oauth.UserInfo, error) {
	return &oauth.UserInfo{Login: f.login}, nil
}

func admin() *repository.User {
	return &repository.User{ID: 1, Username: "Admin", Role: repository.RoleAdmin, Salt: "pepper", Password: auth.HashPassword("secret", "pepper")}
}

func newController(opts ...auth.Option) *auth.Controller {
	u := admin()
	users := &fakeUsers{
		byName:   map[string]*repository.User{"admin": u},
		byGitHub: map[string]*repository.User{"octo": u},
	}
	return auth.NewController(users, views.NewRenderer(""), locale.New("nl"), logger.NewNope(), opts...)
}

func request(t *testing.T, method, target string, form url.Values) (*message.ServerRequest, *session.Session) {
	t.Helper()
	req, err := message.NewServerRequest(method, target)
	require.NoError(t, err)
	if form != nil {
		req = req.WithParsedBody(form)
	}
	sess := session.New("s", time.Now().Add(time.Hour))
	// as mounted under the login segment
	req = req.WithAttribute(router.AttrRouteTail, "/")
	return req.WithAttribute(middlewares.AttrSession, sess), sess
}

func serve(t *testing.T, h router.Handler, req *message.ServerRequest) *message.Response {
	t.Helper()
	resp, err := h.Serve(req, message.NewEmptyResponse(), nil)
	require.NoError(t, err)
	return resp
}

func TestLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		form    url.Values
		wantErr string
	}{
		{"missing password", url.Values{"username": {"admin"}}, "Vul a.u.b. uw gebruikersnaam en wachtwoord in"},
		{"unknown user", url.Values{"username": {"bob"}, "password": {"x"}}, "Geen gebruiker gevonden met die naam"},
		{"wrong password", url.Values{"username": {"admin"}, "password": {"nope"}}, "Incorrect wachtwoord"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, sess := request(t, http.MethodPost, "/login", tt.form)
			resp := serve(t, newController(), req)
			assert.Equal(t, http.StatusOK, resp.StatusCode())
			assert.Contains(t, string(resp.BodyContents()), tt.wantErr)
			assert.False(t, sess.IsAuthenticated())
		})
	}

	t.Run("success redirects to stored uri", func(t *testing.T) {
		t.Parallel()
		req, sess := request(t, http.MethodPost, "/login", url.Values{"username": {"admin"}, "password": {"secret"}})
		auth.RememberURI(sess, "/edit/hello")

		resp := serve(t, newController(), req)
		assert.Equal(t, http.StatusFound, resp.StatusCode())
		assert.Equal(t, "/edit/hello", resp.HeaderLine("Location"))

		id, ok := auth.FromSession(sess)
		require.True(t, ok)
		assert.Equal(t, auth.Identity{ID: 1, Username: "Admin", Role: repository.RoleAdmin}, *id)
		_, stored := sess.Get("auth.redirect")
		assert.False(t, stored)
	})

	t.Run("foreign redirect is ignored", func(t *testing.T) {
		t.Parallel()
		req, sess := request(t, http.MethodPost, "/login", url.Values{"username": {"admin"}, "password": {"secret"}})
		auth.RememberURI(sess, "//evil.test/")
		resp := serve(t, newController(), req)
		assert.Equal(t, "/", resp.HeaderLine("Location"))
	})

	t.Run("get renders form", func(t *testing.T) {
		t.Parallel()
		req, _ := request(t, http.MethodGet, "/login", nil)
		body := string(serve(t, newController(), req).BodyContents())
		assert.Contains(t, body, `name="username"`)
		assert.NotContains(t, body, "/login/github")
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	req, sess := request(t, http.MethodGet, "/logout", nil)
	auth.SignIn(sess, admin())
	sess.Set("cart", "kept")

	resp := serve(t, auth.Logout(), req)
	assert.Equal(t, "/", resp.HeaderLine("Location"))
	_, ok := auth.FromSession(sess)
	assert.False(t, ok)
	assert.Equal(t, "kept", session.ValueOr(sess, "cart", ""))
}

func TestGitHubLogin(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		c := newController(auth.WithGitHub(fakeGitHub{login: "octo"}))

		req, sess := request(t, http.MethodGet, "/login/github", nil)
		resp := serve(t, c, req.WithAttribute(router.AttrRouteTail, "/github"))
		loc, err := url.Parse(resp.HeaderLine("Location"))
		require.NoError(t, err)
		state := loc.Query().Get("state")
		require.NotEmpty(t, state)

		cb, _ := request(t, http.MethodGet, "/login/github/callback?code=c&state="+state, nil)
		cb = cb.WithAttribute(middlewares.AttrSession, sess).WithAttribute(router.AttrRouteTail, "/github/callback")
		resp = serve(t, c, cb)
		assert.Equal(t, http.StatusFound, resp.StatusCode())
		_, ok := auth.FromSession(sess)
		assert.True(t, ok)
	})

	t.Run("state mismatch", func(t *testing.T) {
		t.Parallel()
		c := newController(auth.WithGitHub(fakeGitHub{login: "octo"}))
		req, sess := request(t, http.MethodGet, "/login/github/callback?state=forged", nil)
		sess.Set("auth.oauth_state", "real")
		resp := serve(t, c, req.WithAttribute(router.AttrRouteTail, "/github/callback"))
		assert.Contains(t, string(resp.BodyContents()), "Inloggen met GitHub is mislukt")
		assert.False(t, sess.IsAuthenticated())
	})

	t.Run("unknown account", func(t *testing.T) {
		t.Parallel()
		c := newController(auth.WithGitHub(fakeGitHub{login: "stranger"}))
		req, sess := request(t, http.MethodGet, "/login/github/callback?state=s1", nil)
		sess.Set("auth.oauth_state", "s1")
		resp := serve(t, c, req.WithAttribute(router.AttrRouteTail, "/github/callback"))
		assert.Contains(t, string(resp.BodyContents()), "Geen gebruiker gekoppeld aan GitHub-account stranger")
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		req, _ := request(t, http.MethodGet, "/login/github", nil)
		_, err := newController().Serve(req.WithAttribute(router.AttrRouteTail, "/github"), message.NewEmptyResponse(), nil)
		require.Error(t, err)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	inner := router.HandlerFunc(func(_ *message.ServerRequest, resp *message.Response, _ router.Next) (*message.Response, error) {
		_, err := resp.WriteString("secret")
		return resp, err
	})

	t.Run("anonymous is redirected", func(t *testing.T) {
		t.Parallel()
		req, sess := request(t, http.MethodGet, "/media/browser?x=1", nil)
		resp := serve(t, auth.RequireAdmin(inner), req)
		assert.Equal(t, auth.LoginPath, resp.HeaderLine("Location"))
		assert.Equal(t, "/media/browser?x=1", session.ValueOr(sess, "auth.redirect", ""))
	})

	t.Run("author is redirected", func(t *testing.T) {
		t.Parallel()
		req, sess := request(t, http.MethodGet, "/media", nil)
		u := admin()
		u.Role = repository.RoleAuthor
		auth.SignIn(sess, u)
		resp := serve(t, auth.RequireAdmin(inner), req)
		assert.Equal(t, http.StatusFound, resp.StatusCode())
	})

	t.Run("admin passes", func(t *testing.T) {
		t.Parallel()
		req, sess := request(t, http.MethodGet, "/media", nil)
		auth.SignIn(sess, admin())
		resp := serve(t, auth.RequireAdmin(inner), req)
		assert.Equal(t, "secret", string(resp.BodyContents()))
	})
}

func TestPasswords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "37ed63206cdbaf3f6675549dadf40ba61f411d59ec57ec7c12e439a317d5d39b", auth.HashPassword("secret", "pepper"))
	assert.True(t, auth.CheckPassword(admin(), "secret"))
	assert.False(t, auth.CheckPassword(admin(), "Secret"))

	s1, err := auth.NewSalt()
	require.NoError(t, err)
	s2, err := auth.NewSalt()
	require.NoError(t, err)
	assert.Len(t, s1, 32)
	assert.NotEqual(t, s1, s2)
}
