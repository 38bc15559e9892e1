package message

import (
	"encoding/json"
	"io"
)

// DefaultMockInput is served by an input stream that has no request body.
const DefaultMockInput = "Mock content"

// InputStream is a read-only stream over an inbound request body.
// The body is buffered on first access so the stream can be seeked and read
// more than once.
type InputStream struct {
	stream
}

// InputOption configures an InputStream.
type InputOption func(*inputConfig)

type inputConfig struct {
	mock    *string
	maxSize int64
}

// WithMockInput makes the stream serve s instead of the request body.
// Used by tests and CLI rendering where no real body exists.
func WithMockInput(s string) InputOption {
	return func(c *inputConfig) {
		c.mock = &s
	}
}

// WithMaxInputSize caps how many body bytes are buffered.
func WithMaxInputSize(n int64) InputOption {
	return func(c *inputConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// NewInputStream wraps body. A nil body serves DefaultMockInput.
func NewInputStream(body io.Reader, opts ...InputOption) *InputStream {
	cfg := &inputConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var h handle
	switch {
	case cfg.mock != nil:
		h = &memoryHandle{buf: []byte(*cfg.mock)}
	case body == nil:
		h = &memoryHandle{buf: []byte(DefaultMockInput)}
	default:
		h = &lazyHandle{src: body, limit: cfg.maxSize}
	}

	return &InputStream{stream: stream{
		h:        h,
		readable: true,
		seekable: true,
	}}
}

// lazyHandle reads its source into memory on first use.
type lazyHandle struct {
	src    io.Reader
	mem    *memoryHandle
	err    error
	limit  int64
	loaded bool
}

func (l *lazyHandle) load() error {
	if l.loaded {
		return l.err
	}
	l.loaded = true

	src := l.src
	if l.limit > 0 {
		src = io.LimitReader(src, l.limit)
	}
	data, err := io.ReadAll(src)
	l.mem = &memoryHandle{buf: data}
	l.err = err
	return err
}

func (l *lazyHandle) Read(p []byte) (int, error) {
	if err := l.load(); err != nil {
		return 0, err
	}
	return l.mem.Read(p)
}

func (l *lazyHandle) Write(p []byte) (int, error) {
	if err := l.load(); err != nil {
		return 0, err
	}
	return l.mem.Write(p)
}

func (l *lazyHandle) Seek(offset int64, whence int) (int64, error) {
	if err := l.load(); err != nil {
		return 0, err
	}
	return l.mem.Seek(offset, whence)
}

func (l *lazyHandle) Size() (int64, error) {
	if err := l.load(); err != nil {
		return 0, err
	}
	return l.mem.Size()
}

func (l *lazyHandle) Close() error {
	if c, ok := l.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// EncodeFunc turns a non-string payload into bytes.
type EncodeFunc func(v any) ([]byte, error)

// EncodeJSON is the EncodeFunc used by JSON responses.
func EncodeJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// OutputStream is a write-only outbound body.
// Writes are buffered; the buffer is emitted to the sink when the stream is
// closed, and stays inspectable through MockContents.
type OutputStream struct {
	stream
	mem    *memoryHandle
	sink   io.Writer
	encode EncodeFunc
}

// OutputOption configures an OutputStream.
type OutputOption func(*OutputStream)

// WithEncoder sets the function used by WriteValue for non-string payloads.
func WithEncoder(fn EncodeFunc) OutputOption {
	return func(o *OutputStream) {
		o.encode = fn
	}
}

// WithSink sets the writer that receives the buffered bytes on Close.
func WithSink(w io.Writer) OutputOption {
	return func(o *OutputStream) {
		o.sink = w
	}
}

// NewOutputStream returns an empty write-only stream.
func NewOutputStream(opts ...OutputOption) *OutputStream {
	mem := &memoryHandle{}
	o := &OutputStream{
		stream: stream{
			h:        mem,
			writable: true,
			seekable: true,
		},
		mem: mem,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WriteString writes s verbatim.
func (o *OutputStream) WriteString(s string) (int, error) {
	return o.Write([]byte(s))
}

// WriteValue writes strings and byte slices verbatim and passes anything else
// through the configured encoder.
func (o *OutputStream) WriteValue(v any) (int, error) {
	switch val := v.(type) {
	case string:
		return o.Write([]byte(val))
	case []byte:
		return o.Write(val)
	}
	if o.encode == nil {
		return 0, ErrNoEncoder
	}
	data, err := o.encode(v)
	if err != nil {
		return 0, err
	}
	return o.Write(data)
}

// SetSink replaces the writer that receives the buffer on Close.
func (o *OutputStream) SetSink(w io.Writer) {
	o.sink = w
}

// MockContents returns a copy of everything written so far.
func (o *OutputStream) MockContents() []byte {
	out := make([]byte, len(o.mem.buf))
	copy(out, o.mem.buf)
	return out
}

// Close emits the buffer to the sink, if any, and closes the stream.
func (o *OutputStream) Close() error {
	if o.closed {
		return nil
	}
	var err error
	if o.sink != nil && len(o.mem.buf) > 0 {
		_, err = o.sink.Write(o.mem.buf)
	}
	if cerr := o.stream.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
