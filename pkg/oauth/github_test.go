package oauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/inkwell/pkg/oauth"
)

func newGitHubServer(t *testing.T, userStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if userStatus != http.StatusOK {
			w.WriteHeader(userStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         42,
			"login":      "jdoe",
			"name":       "Jane Doe",
			"avatar_url": "https://avatars.example.com/42",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newProvider(t *testing.T, srv *httptest.Server) *oauth.GitHubProvider {
	t.Helper()

	p, err := oauth.NewGitHubProvider(
		oauth.Config{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://blog.test/login/github/callback"},
		oauth.WithHTTPClient(srv.Client()),
		oauth.WithAPIURL(srv.URL),
		oauth.WithEndpoint(oauth2.Endpoint{
			AuthURL:   srv.URL + "/login/oauth/authorize",
			TokenURL:  srv.URL + "/login/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		}),
	)
	require.NoError(t, err)
	return p
}

func TestNewGitHubProvider(t *testing.T) {
	t.Parallel()

	_, err := oauth.NewGitHubProvider(oauth.Config{ClientSecret: "s"})
	require.ErrorIs(t, err, oauth.ErrMissingClientID)

	_, err = oauth.NewGitHubProvider(oauth.Config{ClientID: "id"})
	require.ErrorIs(t, err, oauth.ErrMissingClientSecret)

	p, err := oauth.NewGitHubProvider(oauth.Config{ClientID: "id", ClientSecret: "s"})
	require.NoError(t, err)
	assert.Equal(t, "github", p.Name())

	u := p.AuthCodeURL("xyz")
	assert.Contains(t, u, "https://github.com/login/oauth/authorize")
	assert.Contains(t, u, "state=xyz")
	assert.Contains(t, u, "scope=read%3Auser")

	assert.False(t, oauth.Config{}.Enabled())
}

func TestGitHubProvider_Flow(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, newGitHubServer(t, http.StatusOK))

		tok, err := p.Exchange(context.Background(), "good-code")
		require.NoError(t, err)
		assert.Equal(t, "tok-123", tok.AccessToken)

		user, err := p.FetchUserInfo(context.Background(), tok)
		require.NoError(t, err)
		assert.Equal(t, &oauth.UserInfo{
			ID:      "42",
			Login:   "jdoe",
			Name:    "Jane Doe",
			Picture: "https://avatars.example.com/42",
		}, user)
	})

	t.Run("bad code", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, newGitHubServer(t, http.StatusOK))

		_, err := p.Exchange(context.Background(), "wrong")
		require.Error(t, err)
	})

	t.Run("user endpoint fails", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, newGitHubServer(t, http.StatusInternalServerError))

		_, err := p.FetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "tok-123", TokenType: "bearer"})
		require.ErrorIs(t, err, oauth.ErrRequestFailed)
	})
}
