package message_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/pkg/message"
)

func TestFromHTTP(t *testing.T) {
	t.Parallel()

	t.Run("copies method, uri, headers, cookies and query", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "http://Blog.Example.com/archive/2024?page=2", nil)
		r.Header.Set("Accept", "text/html")
		r.AddCookie(&http.Cookie{Name: "session", Value: "abc"})
		r.RemoteAddr = "10.0.0.7:5123"

		req, err := message.FromHTTP(r)
		require.NoError(t, err)

		assert.Equal(t, http.MethodGet, req.Method())
		assert.Equal(t, "/archive/2024", req.URI().Path())
		assert.Equal(t, "blog.example.com", req.URI().Host())
		assert.Equal(t, "text/html", req.HeaderLine("accept"))
		assert.Equal(t, "Blog.Example.com", req.HeaderLine("Host"))
		assert.Equal(t, "abc", req.Cookie("session"))
		assert.Equal(t, "2", req.QueryParam("page"))
		assert.Equal(t, "10.0.0.7", req.RemoteIP())
		assert.Equal(t, "/archive/2024?page=2", req.ServerParam(message.ServerRequestURI))
		assert.Equal(t, "1.1", req.ProtocolVersion())
	})

	t.Run("unsupported method fails", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPatch, "/", nil)
		_, err := message.FromHTTP(r)
		require.ErrorIs(t, err, message.ErrInvalidMethod)
	})

	t.Run("urlencoded form", func(t *testing.T) {
		t.Parallel()

		form := url.Values{"title": {"Hello"}, "category[]": {"id:1", "Travel"}}
		r := httptest.NewRequest(http.MethodPost, "/edit", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		req, err := message.FromHTTP(r)
		require.NoError(t, err)

		assert.Equal(t, "Hello", req.PostValue("title"))
		assert.Equal(t, []string{"id:1", "Travel"}, req.PostValues("category"))
		assert.True(t, req.HasPostValue("category"))
		assert.False(t, req.HasPostValue("body"))
	})

	t.Run("json body is decoded lazily", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(`{"name":"Go","tags":["a","b"]}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		req, err := message.FromHTTP(r)
		require.NoError(t, err)

		body, err := req.ParsedBody()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "Go", "tags": []any{"a", "b"}}, body)
		assert.Equal(t, "Go", req.PostValue("name"))
		assert.Equal(t, []string{"a", "b"}, req.PostValues("tags"))
	})

	t.Run("decoded json follows the body and content type", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Go"}`))
		r.Header.Set("Content-Type", "application/json")

		req, err := message.FromHTTP(r)
		require.NoError(t, err)
		assert.Equal(t, "Go", req.PostValue("name"))

		replaced := req.WithBody(message.NewStringStream(`{"name":"Rust"}`))
		assert.Equal(t, "Rust", replaced.PostValue("name"))
		assert.Equal(t, "Go", req.PostValue("name"))

		plain := req.WithHeader("Content-Type", "text/plain")
		body, err := plain.ParsedBody()
		require.NoError(t, err)
		assert.Nil(t, body)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		r.Header.Set("Content-Type", "application/json")

		req, err := message.FromHTTP(r)
		require.NoError(t, err)
		_, err = req.ParsedBody()
		require.ErrorIs(t, err, message.ErrInvalidBody)
		assert.Empty(t, req.PostValue("name"))
	})

	t.Run("multipart files", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("alt", "A cat"))
		fw, err := mw.CreateFormFile("file", "cat.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("png-bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		r := httptest.NewRequest(http.MethodPost, "/media", &buf)
		r.Header.Set("Content-Type", mw.FormDataContentType())

		req, err := message.FromHTTP(r)
		require.NoError(t, err)

		assert.Equal(t, "A cat", req.PostValue("alt"))
		files := req.UploadedFiles()["file"]
		require.Len(t, files, 1)
		assert.Equal(t, "cat.png", files[0].ClientFilename())
		assert.EqualValues(t, len("png-bytes"), files[0].Size())

		s, err := files[0].Stream()
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", s.String())
	})

	t.Run("raw body stays readable", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader("raw"))
		req, err := message.FromHTTP(r)
		require.NoError(t, err)
		assert.Equal(t, "raw", req.Body().String())
		assert.Equal(t, "raw", req.Body().String())
	})
}

func TestServerRequestAttributes(t *testing.T) {
	t.Parallel()

	newReq := func(t *testing.T) *message.ServerRequest {
		t.Helper()
		req, err := message.NewServerRequest("get", "/blog/123")
		require.NoError(t, err)
		return req
	}

	t.Run("default when missing", func(t *testing.T) {
		t.Parallel()

		req := newReq(t)
		assert.Equal(t, "none", req.Attribute("route_tail", "none"))
		assert.Empty(t, req.Attributes())
	})

	t.Run("with attribute copies", func(t *testing.T) {
		t.Parallel()

		req := newReq(t)
		withTail := req.WithAttribute("route_tail", "/123")
		assert.Equal(t, "/123", withTail.Attribute("route_tail", nil))
		assert.Nil(t, req.Attribute("route_tail", nil))

		without := withTail.WithoutAttribute("route_tail")
		assert.Nil(t, without.Attribute("route_tail", nil))
		assert.Equal(t, "/123", withTail.Attribute("route_tail", nil))
	})

	t.Run("with attributes replaces the set", func(t *testing.T) {
		t.Parallel()

		req := newReq(t)
		replaced := req.WithAttribute("a", 1).WithAttributes(map[string]any{"b": 2})
		assert.Equal(t, map[string]any{"b": 2}, replaced.Attributes())
	})

	t.Run("wrappers keep server state", func(t *testing.T) {
		t.Parallel()

		req := newReq(t)
		ctx := context.WithValue(context.Background(), ctxKey{}, "v")
		changed := req.
			WithAttribute("a", 1).
			WithContext(ctx).
			WithHeader("X-Requested-With", "XMLHttpRequest").
			WithQueryParams(url.Values{"page": {"3"}}).
			WithCookieParams(map[string]string{"s": "1"})

		changed, err := changed.WithMethod("post")
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, changed.Method())
		assert.Equal(t, 1, changed.Attribute("a", nil))
		assert.Equal(t, "v", changed.Context().Value(ctxKey{}))
		assert.Equal(t, "3", changed.QueryParam("page"))
		assert.Equal(t, "1", changed.Cookie("s"))
		assert.Equal(t, "XMLHttpRequest", changed.HeaderLine("x-requested-with"))
		assert.Equal(t, http.MethodGet, req.Method())
	})

	t.Run("parsed body override", func(t *testing.T) {
		t.Parallel()

		req := newReq(t)
		withBody := req.WithParsedBody(url.Values{"q": {"x"}})
		assert.Equal(t, "x", withBody.PostValue("q"))
		assert.Empty(t, req.PostValue("q"))
	})

	t.Run("query is derived from the target", func(t *testing.T) {
		t.Parallel()

		withQuery, err := message.NewServerRequest("GET", "/?page=4")
		require.NoError(t, err)
		assert.Equal(t, "4", withQuery.QueryParam("page"))
	})
}

type ctxKey struct{}
