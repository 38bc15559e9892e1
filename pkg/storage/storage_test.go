package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("passes", func(t *testing.T) {
		t.Parallel()
		err := Validate(10, "image/png", NotEmpty(), MaxSize(100), ImageOnly(), AllowedTypes("image/*"))
		require.NoError(t, err)
	})

	t.Run("first failure wins", func(t *testing.T) {
		t.Parallel()
		err := Validate(0, "text/html", NotEmpty(), ImageOnly())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "not_empty", verr.Rule)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, Validate(101, "image/png", MaxSize(100)), ErrValidation)
	})

	t.Run("media only", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, Validate(1, "application/pdf", MediaOnly()))
		require.Error(t, Validate(1, "application/x-msdownload", MediaOnly()))
	})
}

func TestMatchesMIME(t *testing.T) {
	t.Parallel()

	assert.True(t, matchesMIME("image/PNG; charset=binary", []string{"image/png"}))
	assert.True(t, matchesMIME("image/webp", []string{"text/plain", "image/*"}))
	assert.False(t, matchesMIME("imagex/webp", []string{"image*"}))
	assert.False(t, matchesMIME("video/mp4", []string{"image/*"}))
}

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	t.Run("seekable reader is rewound", func(t *testing.T) {
		t.Parallel()
		ct, body := DetectMIME(bytes.NewReader(pngHeader))
		assert.Equal(t, "image/png", ct)
		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)
	})

	t.Run("plain reader is buffered", func(t *testing.T) {
		t.Parallel()
		ct, body := DetectMIME(io.NopCloser(strings.NewReader("hello world")))
		assert.Equal(t, "text/plain; charset=utf-8", ct)
		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(data))
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		ct, _ := DetectMIME(io.NopCloser(strings.NewReader("")))
		assert.Equal(t, MIMEOctetStream, ct)
	})
}

func TestBuildKey(t *testing.T) {
	t.Parallel()

	key := buildKey("media", "image/jpeg")
	assert.True(t, strings.HasPrefix(key, "media/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(key, "media/"), ".jpg"), 26)

	assert.True(t, strings.HasSuffix(buildKey("", "application/x-unknown"), ".bin"))
	assert.False(t, strings.Contains(buildKey("../../etc", "text/plain"), ".."))
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"cdn", Config{Bucket: "b", PublicURL: "https://cdn.example.com/"}, "https://cdn.example.com/media/a.png"},
		{"path style", Config{Bucket: "b", Endpoint: "http://minio:9000", PathStyle: true}, "http://minio:9000/b/media/a.png"},
		{"virtual host", Config{Bucket: "b", Endpoint: "https://b.minio.local"}, "https://b.minio.local/media/a.png"},
		{"aws", Config{Bucket: "b", Region: "eu-west-1"}, "https://b.s3.eu-west-1.amazonaws.com/media/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &S3Storage{cfg: tt.cfg}
			assert.Equal(t, tt.want, s.publicURL("media/a.png"))
		})
	}
}

func TestWrapS3Error(t *testing.T) {
	t.Parallel()

	notFound := &smithy.GenericAPIError{Code: "NoSuchKey"}
	denied := &smithy.GenericAPIError{Code: "AccessDenied"}
	other := errors.New("boom")

	assert.ErrorIs(t, wrapS3Error(notFound, ErrUploadFailed), ErrNotFound)
	assert.ErrorIs(t, wrapS3Error(denied, ErrUploadFailed), ErrAccessDenied)
	err := wrapS3Error(other, ErrDeleteFailed)
	assert.ErrorIs(t, err, ErrDeleteFailed)
	assert.ErrorIs(t, err, other)
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Bucket: "b"})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.False(t, Config{}.Enabled())
}

// fakeS3 answers path-style object requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.URL.Path
	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[key] = data
		f.types[key] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		_, _ = w.Write(data)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Storage(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := New(Config{
		Bucket:     "blog",
		AccessKey:  "key",
		SecretKey:  "secret",
		Endpoint:   srv.URL,
		PathStyle:  true,
		DefaultACL: ACLPublicRead,
	})
	require.NoError(t, err)
	ctx := context.Background()

	info, err := store.Put(ctx, bytes.NewReader(pngHeader), int64(len(pngHeader)), WithPrefix("media"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", info.ContentType)
	assert.True(t, strings.HasPrefix(info.Key, "media/"))

	fake.mu.Lock()
	assert.Equal(t, "image/png", fake.types["/blog/"+info.Key])
	fake.mu.Unlock()

	rc, err := store.Get(ctx, info.Key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	u, err := store.URL(ctx, info.Key)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/blog/"+info.Key, u)

	signed, err := store.URL(ctx, info.Key, WithSigned(0))
	require.NoError(t, err)
	assert.Contains(t, signed, "X-Amz-Signature=")

	require.NoError(t, store.Delete(ctx, info.Key))
	_, err = store.Get(ctx, info.Key)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.Put(ctx, strings.NewReader("<html></html>"), 13, WithValidation(ImageOnly()))
	require.ErrorIs(t, err, ErrValidation)
}

func TestMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory("http://localhost/files/")

	info, err := m.Put(ctx, bytes.NewReader(pngHeader), int64(len(pngHeader)), WithPrefix("media"), WithValidation(ImageOnly()))
	require.NoError(t, err)
	assert.Equal(t, "image/png", info.ContentType)
	assert.True(t, strings.HasPrefix(info.Key, "media/"))
	assert.True(t, strings.HasSuffix(info.Key, ".png"))

	u, err := m.URL(ctx, info.Key)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/files/"+info.Key, u)

	rc, err := m.Get(ctx, info.Key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	_, err = m.Put(ctx, strings.NewReader("plain words"), 11, WithValidation(ImageOnly()))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, info.Key))
	_, err = m.Get(ctx, info.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}
