package message_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/pkg/message"
)

func TestMemoryStream(t *testing.T) {
	t.Parallel()

	t.Run("reads, seeks and reports eof", func(t *testing.T) {
		t.Parallel()

		s := message.NewStringStream("hello world")
		buf := make([]byte, 5)
		n, err := s.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(buf[:n]))

		pos, err := s.Tell()
		require.NoError(t, err)
		assert.EqualValues(t, 5, pos)
		assert.False(t, s.EOF())

		rest, err := s.Contents()
		require.NoError(t, err)
		assert.Equal(t, " world", string(rest))
		assert.True(t, s.EOF())

		_, err = s.Seek(6, io.SeekStart)
		require.NoError(t, err)
		assert.False(t, s.EOF())

		size, err := s.Size()
		require.NoError(t, err)
		assert.EqualValues(t, 11, size)
		assert.Equal(t, "hello world", s.String())
	})

	t.Run("write overwrites at the cursor and grows", func(t *testing.T) {
		t.Parallel()

		s := message.NewStringStream("abc")
		_, err := s.Seek(0, io.SeekEnd)
		require.NoError(t, err)
		_, err = s.Write([]byte("def"))
		require.NoError(t, err)
		assert.Equal(t, "abcdef", s.String())
	})

	t.Run("read-only stream fails on write", func(t *testing.T) {
		t.Parallel()

		s := message.NewMemoryStream([]byte("x"), true, false)
		_, err := s.Write([]byte("y"))
		require.ErrorIs(t, err, message.ErrNotWritable)
		assert.False(t, s.Writable())
	})

	t.Run("write-only stream fails on read", func(t *testing.T) {
		t.Parallel()

		s := message.NewMemoryStream(nil, false, true)
		_, err := s.Read(make([]byte, 1))
		require.ErrorIs(t, err, message.ErrNotReadable)
		_, err = s.Contents()
		require.ErrorIs(t, err, message.ErrNotReadable)
		assert.Empty(t, s.String())
	})

	t.Run("closed stream rejects operations", func(t *testing.T) {
		t.Parallel()

		s := message.NewStringStream("data")
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())

		_, err := s.Read(make([]byte, 1))
		require.ErrorIs(t, err, message.ErrStreamClosed)
		_, err = s.Write([]byte("x"))
		require.ErrorIs(t, err, message.ErrStreamClosed)
		_, err = s.Seek(0, io.SeekStart)
		require.ErrorIs(t, err, message.ErrStreamClosed)
		assert.True(t, s.EOF())
		assert.False(t, s.Readable())
	})

	t.Run("negative seek fails", func(t *testing.T) {
		t.Parallel()

		s := message.NewStringStream("data")
		_, err := s.Seek(-1, io.SeekStart)
		require.ErrorIs(t, err, message.ErrNotSeekable)
	})
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	t.Run("direction follows the mode", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		tests := []struct {
			mode     string
			readable bool
			writable bool
		}{
			{mode: "r", readable: true},
			{mode: "rb", readable: true},
			{mode: "r+", readable: true, writable: true},
			{mode: "w", writable: true},
			{mode: "w+", readable: true, writable: true},
			{mode: "a", writable: true},
			{mode: "a+", readable: true, writable: true},
			{mode: "c", writable: true},
		}

		for _, tt := range tests {
			name := filepath.Join(dir, "mode-"+strings.ReplaceAll(tt.mode, "+", "plus"))
			require.NoError(t, os.WriteFile(name, []byte("seed"), 0o600))

			s, err := message.OpenFile(name, tt.mode)
			require.NoError(t, err, tt.mode)
			assert.Equal(t, tt.readable, s.Readable(), tt.mode)
			assert.Equal(t, tt.writable, s.Writable(), tt.mode)
			assert.Equal(t, tt.mode, s.Mode())
			require.NoError(t, s.Close())
		}
	})

	t.Run("read-only file fails on write", func(t *testing.T) {
		t.Parallel()

		name := filepath.Join(t.TempDir(), "ro.txt")
		require.NoError(t, os.WriteFile(name, []byte("content"), 0o600))

		s, err := message.OpenFile(name, "r")
		require.NoError(t, err)
		defer s.Close()

		_, err = s.Write([]byte("x"))
		require.ErrorIs(t, err, message.ErrNotWritable)
		assert.Equal(t, "content", s.String())
	})

	t.Run("write-only file fails on read", func(t *testing.T) {
		t.Parallel()

		name := filepath.Join(t.TempDir(), "wo.txt")
		s, err := message.OpenFile(name, "w")
		require.NoError(t, err)
		defer s.Close()

		n, err := s.Write([]byte("payload"))
		require.NoError(t, err)
		assert.Equal(t, 7, n)

		_, err = s.Read(make([]byte, 4))
		require.ErrorIs(t, err, message.ErrNotReadable)

		size, err := s.Size()
		require.NoError(t, err)
		assert.EqualValues(t, 7, size)
	})

	t.Run("read-write file round trips", func(t *testing.T) {
		t.Parallel()

		name := filepath.Join(t.TempDir(), "rw.txt")
		s, err := message.OpenFile(name, "w+")
		require.NoError(t, err)
		defer s.Close()

		_, err = s.Write([]byte("draft"))
		require.NoError(t, err)
		require.NoError(t, s.Rewind())
		data, err := s.Contents()
		require.NoError(t, err)
		assert.Equal(t, "draft", string(data))
		assert.Equal(t, name, s.Name())
	})

	t.Run("missing file is unavailable", func(t *testing.T) {
		t.Parallel()

		_, err := message.OpenFile(filepath.Join(t.TempDir(), "missing"), "r")
		require.ErrorIs(t, err, message.ErrResourceUnavailable)
	})

	t.Run("unknown mode is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := message.OpenFile(filepath.Join(t.TempDir(), "f"), "q")
		require.ErrorIs(t, err, message.ErrResourceUnavailable)
	})
}

func TestInputStream(t *testing.T) {
	t.Parallel()

	t.Run("nil body serves the default mock", func(t *testing.T) {
		t.Parallel()

		s := message.NewInputStream(nil)
		assert.Equal(t, message.DefaultMockInput, s.String())
		assert.False(t, s.Writable())
	})

	t.Run("mock overrides the body", func(t *testing.T) {
		t.Parallel()

		s := message.NewInputStream(strings.NewReader("real"), message.WithMockInput(`{"a":1}`))
		assert.Equal(t, `{"a":1}`, s.String())
	})

	t.Run("body is buffered and can be read twice", func(t *testing.T) {
		t.Parallel()

		s := message.NewInputStream(io.NopCloser(strings.NewReader("payload")))
		assert.Equal(t, "payload", s.String())
		assert.Equal(t, "payload", s.String())

		_, err := s.Write([]byte("x"))
		require.ErrorIs(t, err, message.ErrNotWritable)
	})

	t.Run("size limit truncates", func(t *testing.T) {
		t.Parallel()

		s := message.NewInputStream(strings.NewReader("0123456789"), message.WithMaxInputSize(4))
		assert.Equal(t, "0123", s.String())
	})

	t.Run("read failures surface as not readable", func(t *testing.T) {
		t.Parallel()

		s := message.NewInputStream(failingReader{})
		_, err := s.Read(make([]byte, 1))
		require.Error(t, err)
		require.ErrorIs(t, err, message.ErrNotReadable)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestOutputStream(t *testing.T) {
	t.Parallel()

	t.Run("buffers writes and is write-only", func(t *testing.T) {
		t.Parallel()

		s := message.NewOutputStream()
		_, err := s.WriteString("<p>hi</p>")
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", string(s.MockContents()))

		_, err = s.Read(make([]byte, 1))
		require.ErrorIs(t, err, message.ErrNotReadable)
	})

	t.Run("encodes non-string payloads", func(t *testing.T) {
		t.Parallel()

		s := message.NewOutputStream(message.WithEncoder(message.EncodeJSON))
		_, err := s.WriteValue(map[string]any{"found": true})
		require.NoError(t, err)
		_, err = s.WriteValue("!")
		require.NoError(t, err)
		assert.JSONEq(t, `{"found":true}`, strings.TrimSuffix(string(s.MockContents()), "!"))
	})

	t.Run("non-string payload without encoder fails", func(t *testing.T) {
		t.Parallel()

		s := message.NewOutputStream()
		_, err := s.WriteValue(42)
		require.ErrorIs(t, err, message.ErrNoEncoder)
	})

	t.Run("close emits to the sink once", func(t *testing.T) {
		t.Parallel()

		var sink bytes.Buffer
		s := message.NewOutputStream(message.WithSink(&sink))
		_, err := s.WriteString("body")
		require.NoError(t, err)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
		assert.Equal(t, "body", sink.String())

		_, err = s.WriteString("late")
		require.ErrorIs(t, err, message.ErrStreamClosed)
	})
}
