package middlewares_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/internal"
	"github.com/dmitrymomot/inkwell/middlewares"
	"github.com/dmitrymomot/inkwell/pkg/cache"
	"github.com/dmitrymomot/inkwell/pkg/cookie"
	"github.com/dmitrymomot/inkwell/pkg/logger"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
	"github.com/dmitrymomot/inkwell/pkg/session"
)

func newRequest(t *testing.T, target string) *message.ServerRequest {
	t.Helper()
	req, err := message.NewServerRequest(http.MethodGet, target)
	require.NoError(t, err)
	return req
}

func handle(fn func(req *message.ServerRequest, resp *message.Response) (*message.Response, error)) router.Handler {
	return router.HandlerFunc(func(req *message.ServerRequest, resp *message.Response, _ router.Next) (*message.Response, error) {
		return fn(req, resp)
	})
}

func ok(req *message.ServerRequest, resp *message.Response) (*message.Response, error) {
	_, err := resp.WriteString("ok")
	return resp, err
}

func serve(t *testing.T, req *message.ServerRequest, handlers ...router.Handler) (*message.Response, error) {
	t.Helper()
	return router.Chain(handlers...).Serve(req, message.NewEmptyResponse(), nil)
}

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("panic becomes PanicError", func(t *testing.T) {
		t.Parallel()

		resp, err := serve(t, newRequest(t, "/"),
			middlewares.Recover(logger.NewNope()),
			handle(func(*message.ServerRequest, *message.Response) (*message.Response, error) { panic("boom") }),
		)
		require.Nil(t, resp)
		pe, found := middlewares.AsPanicError(err)
		require.True(t, found)
		assert.Equal(t, "boom", pe.Value)
		assert.NotEmpty(t, pe.Stack)
	})

	t.Run("stack capture disabled", func(t *testing.T) {
		t.Parallel()

		_, err := serve(t, newRequest(t, "/"),
			middlewares.Recover(logger.NewNope(), middlewares.WithRecoverDisablePrintStack()),
			handle(func(*message.ServerRequest, *message.Response) (*message.Response, error) { panic(42) }),
		)
		pe, found := middlewares.AsPanicError(err)
		require.True(t, found)
		assert.Nil(t, pe.Stack)
	})

	t.Run("passes through", func(t *testing.T) {
		t.Parallel()

		resp, err := serve(t, newRequest(t, "/"), middlewares.Recover(logger.NewNope()), handle(ok))
		require.NoError(t, err)
		assert.Equal(t, "ok", string(resp.BodyContents()))
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	capture := func(seen *string) router.Handler {
		return handle(func(req *message.ServerRequest, resp *message.Response) (*message.Response, error) {
			*seen = middlewares.GetRequestID(req.Context())
			assert.Equal(t, *seen, req.Attribute(middlewares.AttrRequestID, ""))
			// a fresh response must still get the header
			return message.NewRedirectResponse("/"), nil
		})
	}

	t.Run("generates an id", func(t *testing.T) {
		t.Parallel()

		var seen string
		resp, err := serve(t, newRequest(t, "/"),
			middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "gen-1" })),
			capture(&seen),
		)
		require.NoError(t, err)
		assert.Equal(t, "gen-1", seen)
		assert.Equal(t, "gen-1", resp.HeaderLine("X-Request-ID"))
	})

	t.Run("reuses upstream id", func(t *testing.T) {
		t.Parallel()

		var seen string
		req := newRequest(t, "/").WithHeader("X-Correlation-ID", "up-7")
		resp, err := serve(t, req, middlewares.RequestID(), capture(&seen))
		require.NoError(t, err)
		assert.Equal(t, "up-7", seen)
		assert.Equal(t, "up-7", resp.HeaderLine("X-Request-ID"))
	})

	t.Run("extractor", func(t *testing.T) {
		t.Parallel()

		ex := middlewares.RequestIDExtractor()
		_, found := ex(context.Background())
		assert.False(t, found)

		attr, found := ex(middlewares.WithRequestID(context.Background(), "abc"))
		require.True(t, found)
		assert.Equal(t, "request_id", attr.Key)
		assert.Equal(t, "abc", attr.Value.String())
	})
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("deadline yields TimeoutError", func(t *testing.T) {
		t.Parallel()

		_, err := serve(t, newRequest(t, "/"),
			middlewares.Timeout(logger.NewNope(), 20*time.Millisecond),
			handle(func(req *message.ServerRequest, resp *message.Response) (*message.Response, error) {
				<-req.Context().Done()
				return resp, nil
			}),
		)
		require.True(t, middlewares.IsTimeoutError(err))
	})

	t.Run("fast handler completes", func(t *testing.T) {
		t.Parallel()

		resp, err := serve(t, newRequest(t, "/"), middlewares.Timeout(logger.NewNope(), time.Second), handle(ok))
		require.NoError(t, err)
		assert.Equal(t, "ok", string(resp.BodyContents()))
	})

	t.Run("handler error is returned", func(t *testing.T) {
		t.Parallel()

		want := errors.New("nope")
		_, err := serve(t, newRequest(t, "/"),
			middlewares.Timeout(logger.NewNope(), time.Second),
			handle(func(*message.ServerRequest, *message.Response) (*message.Response, error) { return nil, want }),
		)
		require.ErrorIs(t, err, want)
	})
}

func TestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	_, err := serve(t, newRequest(t, "/hello"), middlewares.Logger(log), handle(ok))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"path":"/hello"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestSession(t *testing.T) {
	t.Parallel()

	mem := cache.NewMemory[*session.Session](cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = mem.Close() })
	m := session.NewManager(session.NewCacheStore(mem), cookie.New(cookie.WithSecret("this-is-a-32-byte-or-longer-key!")))

	setter := handle(func(req *message.ServerRequest, resp *message.Response) (*message.Response, error) {
		sess := middlewares.GetSession(req)
		require.NotNil(t, sess)
		if v, found := sess.Get("visits"); found {
			sess.Set("visits", v+"x")
		} else {
			sess.Set("visits", "x")
		}
		_, err := resp.WriteString(sess.Values["visits"])
		return resp, err
	})

	resp, err := serve(t, newRequest(t, "/"), middlewares.Session(m), setter)
	require.NoError(t, err)
	assert.Equal(t, "x", string(resp.BodyContents()))

	rec := httptest.NewRecorder()
	require.NoError(t, resp.Flush(rec))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	req, err := message.FromHTTP(r)
	require.NoError(t, err)

	resp, err = serve(t, req, middlewares.Session(m), setter)
	require.NoError(t, err)
	assert.Equal(t, "xx", string(resp.BodyContents()))

	assert.Nil(t, middlewares.GetSession(newRequest(t, "/")))
}

func TestRequestIDTagsErrors(t *testing.T) {
	t.Parallel()

	want := errors.New("db down")
	_, err := serve(t, newRequest(t, "/"),
		middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "r-1" })),
		handle(func(*message.ServerRequest, *message.Response) (*message.Response, error) { return nil, want }),
	)
	require.ErrorIs(t, err, want)

	var re *internal.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "r-1", re.RequestID)
}
