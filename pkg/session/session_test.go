package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/pkg/cache"
	"github.com/dmitrymomot/inkwell/pkg/cookie"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/session"
)

const testSecret = "this-is-a-32-byte-or-longer-key!"

func newManager(t *testing.T) (*session.Manager, *session.CacheStore) {
	t.Helper()
	mem := cache.NewMemory[*session.Session](cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = mem.Close() })

	store := session.NewCacheStore(mem)
	return session.NewManager(store, cookie.New(cookie.WithSecret(testSecret)), session.WithTTL(time.Hour)), store
}

// carryCookies builds the next request from the cookies set on resp.
func carryCookies(t *testing.T, resp *message.Response) *message.ServerRequest {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, resp.Flush(rec))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	req, err := message.FromHTTP(r)
	require.NoError(t, err)
	return req
}

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("new session is dirty and anonymous", func(t *testing.T) {
		t.Parallel()

		s := session.New("id", time.Now().Add(time.Hour))
		assert.True(t, s.IsNew())
		assert.True(t, s.IsDirty())
		assert.False(t, s.IsAuthenticated())
		assert.False(t, s.IsExpired())
	})

	t.Run("values", func(t *testing.T) {
		t.Parallel()

		s := session.New("id", time.Now().Add(time.Hour))
		s.ClearDirty()

		s.Set("redirect", "/edit")
		assert.True(t, s.IsDirty())
		assert.Equal(t, "/edit", session.ValueOr(s, "redirect", "/"))

		v, ok := s.Pop("redirect")
		assert.True(t, ok)
		assert.Equal(t, "/edit", v)
		assert.Equal(t, "/", session.ValueOr(s, "redirect", "/"))

		_, err := session.Value(s, "missing")
		require.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("authenticate and logout", func(t *testing.T) {
		t.Parallel()

		s := session.New("id", time.Now().Add(time.Hour))
		s.Authenticate("42")
		assert.True(t, s.IsAuthenticated())
		s.Logout()
		assert.False(t, s.IsAuthenticated())
	})
}

func TestManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round trips through the cookie", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)
		req, err := message.NewServerRequest("GET", "/")
		require.NoError(t, err)

		sess, err := m.Load(ctx, req)
		require.NoError(t, err)
		assert.True(t, sess.IsNew())
		sess.Authenticate("7")
		sess.Set("username", "admin")

		resp, err := m.Save(ctx, message.NewEmptyResponse(), sess)
		require.NoError(t, err)
		require.True(t, resp.HasHeader("Set-Cookie"))

		loaded, err := m.Load(ctx, carryCookies(t, resp))
		require.NoError(t, err)
		assert.Equal(t, sess.ID, loaded.ID)
		assert.False(t, loaded.IsNew())
		assert.True(t, loaded.IsAuthenticated())
		assert.Equal(t, "admin", session.ValueOr(loaded, "username", ""))
	})

	t.Run("existing session does not reset the cookie", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)
		req, err := message.NewServerRequest("GET", "/")
		require.NoError(t, err)
		sess, err := m.Load(ctx, req)
		require.NoError(t, err)
		resp, err := m.Save(ctx, message.NewEmptyResponse(), sess)
		require.NoError(t, err)

		loaded, err := m.Load(ctx, carryCookies(t, resp))
		require.NoError(t, err)
		loaded.Set("k", "v")
		again, err := m.Save(ctx, message.NewEmptyResponse(), loaded)
		require.NoError(t, err)
		assert.False(t, again.HasHeader("Set-Cookie"))
	})

	t.Run("forged cookie starts over", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)
		req, err := message.NewServerRequest("GET", "/")
		require.NoError(t, err)
		req = req.WithCookieParams(map[string]string{session.DefaultCookieName: "forged.value"})

		sess, err := m.Load(ctx, req)
		require.NoError(t, err)
		assert.True(t, sess.IsNew())
	})

	t.Run("destroy removes the session", func(t *testing.T) {
		t.Parallel()

		m, store := newManager(t)
		req, err := message.NewServerRequest("GET", "/")
		require.NoError(t, err)
		sess, err := m.Load(ctx, req)
		require.NoError(t, err)
		_, err = m.Save(ctx, message.NewEmptyResponse(), sess)
		require.NoError(t, err)

		resp, err := m.Destroy(ctx, message.NewEmptyResponse(), sess)
		require.NoError(t, err)
		assert.Contains(t, resp.HeaderLine("Set-Cookie"), session.DefaultCookieName+"=")

		_, err = store.Get(ctx, sess.ID)
		require.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestCacheStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := cache.NewMemory[*session.Session](cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = mem.Close() })
	store := session.NewCacheStore(mem)

	t.Run("expired session is rejected on save", func(t *testing.T) {
		t.Parallel()

		err := store.Save(ctx, session.New("old", time.Now().Add(-time.Minute)))
		require.ErrorIs(t, err, session.ErrExpired)
	})

	t.Run("stored copy is isolated", func(t *testing.T) {
		t.Parallel()

		s := session.New("iso", time.Now().Add(time.Hour))
		s.Set("a", "1")
		require.NoError(t, store.Save(ctx, s))
		s.Set("a", "2")

		got, err := store.Get(ctx, "iso")
		require.NoError(t, err)
		assert.Equal(t, "1", session.ValueOr(got, "a", ""))
	})

	t.Run("loaded session is neither new nor dirty", func(t *testing.T) {
		t.Parallel()

		s := session.New("flags", time.Now().Add(time.Hour))
		require.True(t, s.IsNew())
		require.NoError(t, store.Save(ctx, s))

		got, err := store.Get(ctx, "flags")
		require.NoError(t, err)
		assert.False(t, got.IsNew())
		assert.False(t, got.IsDirty())
	})
}
