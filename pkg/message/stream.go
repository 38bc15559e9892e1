package message

import (
	"errors"
	"fmt"
	"io"
)

// Stream is a uniform read/write/seek contract over a body,
// whatever the backing resource.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Tell returns the current cursor position.
	Tell() (int64, error)
	// Rewind moves the cursor to the start.
	Rewind() error
	// EOF reports whether the cursor reached the end of the stream.
	EOF() bool
	// Size returns the total size in bytes.
	Size() (int64, error)
	// Contents drains the bytes between the cursor and the end.
	Contents() ([]byte, error)
	// String rewinds and returns the whole stream, or "" if it cannot be read.
	String() string

	Readable() bool
	Writable() bool
	Seekable() bool
}

// handle is the backing resource behind a stream.
type handle interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Size() (int64, error)
}

// stream implements Stream on top of a handle and direction flags.
// Concrete stream types embed it.
type stream struct {
	h        handle
	readable bool
	writable bool
	seekable bool
	closed   bool
	eof      bool
}

func (s *stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if !s.readable {
		return 0, ErrNotReadable
	}
	n, err := s.h.Read(p)
	if errors.Is(err, io.EOF) {
		s.eof = true
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrNotReadable, err)
	}
	return n, nil
}

func (s *stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if !s.writable {
		return 0, ErrNotWritable
	}
	n, err := s.h.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrNotWritable, err)
	}
	return n, nil
}

func (s *stream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if !s.seekable {
		return 0, ErrNotSeekable
	}
	s.eof = false
	return s.h.Seek(offset, whence)
}

func (s *stream) Tell() (int64, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	return s.h.Seek(0, io.SeekCurrent)
}

func (s *stream) Rewind() error {
	_, err := s.Seek(0, io.SeekStart)
	return err
}

func (s *stream) EOF() bool {
	if s.closed || s.eof {
		return true
	}
	pos, err := s.Tell()
	if err != nil {
		return false
	}
	size, err := s.h.Size()
	if err != nil {
		return false
	}
	return pos >= size
}

func (s *stream) Size() (int64, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	size, err := s.h.Size()
	if err != nil {
		return 0, errors.Join(ErrResourceUnavailable, err)
	}
	return size, nil
}

// Close releases the backing resource. Closing twice is a no-op.
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.h.Close()
}

func (s *stream) Contents() ([]byte, error) {
	if s.closed {
		return nil, ErrStreamClosed
	}
	if !s.readable {
		return nil, ErrNotReadable
	}
	data, err := io.ReadAll(s)
	if err != nil {
		return data, err
	}
	return data, nil
}

func (s *stream) String() string {
	if s.closed || !s.readable {
		return ""
	}
	if s.seekable {
		if err := s.Rewind(); err != nil {
			return ""
		}
	}
	data, err := s.Contents()
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *stream) Readable() bool { return s.readable && !s.closed }
func (s *stream) Writable() bool { return s.writable && !s.closed }
func (s *stream) Seekable() bool { return s.seekable && !s.closed }

// memoryHandle is a growable in-memory buffer with a cursor.
type memoryHandle struct {
	buf []byte
	off int64
}

func (m *memoryHandle) Read(p []byte) (int, error) {
	if m.off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.off:])
	m.off += int64(n)
	return n, nil
}

func (m *memoryHandle) Write(p []byte) (int, error) {
	end := m.off + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.off:], p)
	m.off += int64(n)
	return n, nil
}

func (m *memoryHandle) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.off + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("%w: invalid whence %d", ErrNotSeekable, whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("%w: negative position", ErrNotSeekable)
	}
	m.off = abs
	return abs, nil
}

func (m *memoryHandle) Close() error { return nil }

func (m *memoryHandle) Size() (int64, error) { return int64(len(m.buf)), nil }

// MemoryStream is a stream backed by an in-memory buffer.
type MemoryStream struct {
	stream
}

// NewMemoryStream returns a stream over a copy of initial with the cursor at
// the start. Direction flags are fixed for the stream's lifetime.
func NewMemoryStream(initial []byte, readable, writable bool) *MemoryStream {
	buf := make([]byte, len(initial))
	copy(buf, initial)
	return &MemoryStream{stream: stream{
		h:        &memoryHandle{buf: buf},
		readable: readable,
		writable: writable,
		seekable: true,
	}}
}

// NewStringStream returns a readable and writable stream holding s.
func NewStringStream(s string) *MemoryStream {
	return NewMemoryStream([]byte(s), true, true)
}
