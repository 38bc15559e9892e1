package message

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// ContentTypeJSON is set on every JSON response.
const ContentTypeJSON = "application/json"

// Response is an immutable HTTP response.
// Its default body is a buffered OutputStream.
type Response struct {
	Message
	reason string
	status int
}

// NewResponse returns a response with status and, if non-empty, body written
// to its default body stream.
func NewResponse(status int, body string) (*Response, error) {
	if !ValidStatus(status) {
		return nil, invalidStatus(status)
	}
	r := &Response{
		Message: newMessage(func() Stream { return NewOutputStream() }),
		status:  status,
	}
	if body != "" {
		if _, err := r.Body().Write([]byte(body)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewEmptyResponse returns a 200 response with an empty body.
func NewEmptyResponse() *Response {
	return &Response{
		Message: newMessage(func() Stream { return NewOutputStream() }),
		status:  http.StatusOK,
	}
}

// NewRedirectResponse returns a 302 response pointing at location.
func NewRedirectResponse(location string) *Response {
	r := NewEmptyResponse()
	r.status = http.StatusFound
	r.headers = r.headers.with("Location", []string{location})
	return r
}

// NewJSONResponse returns a response whose body encodes non-string values as
// JSON and whose Content-Type is application/json.
func NewJSONResponse(status int) (*Response, error) {
	if !ValidStatus(status) {
		return nil, invalidStatus(status)
	}
	r := &Response{
		Message: newMessage(func() Stream { return NewOutputStream(WithEncoder(EncodeJSON)) }),
		status:  status,
	}
	r.headers = r.headers.with("Content-Type", []string{ContentTypeJSON})
	return r, nil
}

func invalidStatus(code int) error {
	return fmt.Errorf("%w: %d is not a valid HTTP status code", ErrInvalidStatus, code)
}

func (r *Response) clone() *Response {
	c := *r
	c.Message = r.Message.clone()
	return &c
}

// StatusCode returns the status code, 200 by default.
func (r *Response) StatusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// WithStatus returns a copy with the status replaced.
// An empty reason falls back to the table phrase.
func (r *Response) WithStatus(code int, reason string) (*Response, error) {
	if !ValidStatus(code) {
		return nil, invalidStatus(code)
	}
	c := r.clone()
	c.status = code
	c.reason = reason
	return c, nil
}

// ReasonPhrase returns the custom reason phrase or the table default.
func (r *Response) ReasonPhrase() string {
	if r.reason != "" {
		return r.reason
	}
	return StatusText(r.StatusCode())
}

func (r *Response) WithProtocolVersion(version string) *Response {
	c := r.clone()
	c.protocol = version
	return c
}

// WithHeader returns a copy with every value of name replaced.
func (r *Response) WithHeader(name string, values ...string) *Response {
	c := r.clone()
	c.headers = c.headers.with(name, values)
	return c
}

// WithAddedHeader returns a copy with values appended to name.
func (r *Response) WithAddedHeader(name string, values ...string) *Response {
	c := r.clone()
	c.headers = c.headers.added(name, values)
	return c
}

func (r *Response) WithoutHeader(name string) *Response {
	c := r.clone()
	c.headers = c.headers.without(name)
	return c
}

func (r *Response) WithBody(body Stream) *Response {
	c := r.clone()
	c.body = body
	return c
}

// WriteString appends s to the body.
func (r *Response) WriteString(s string) (int, error) {
	return r.Body().Write([]byte(s))
}

// WriteValue appends v to the body. Bodies that know how to encode values
// (JSON responses) handle non-strings; other bodies accept strings only.
func (r *Response) WriteValue(v any) (int, error) {
	if vw, ok := r.Body().(interface{ WriteValue(any) (int, error) }); ok {
		return vw.WriteValue(v)
	}
	switch val := v.(type) {
	case string:
		return r.Body().Write([]byte(val))
	case []byte:
		return r.Body().Write(val)
	}
	return 0, ErrNoEncoder
}

// BodyContents returns the bytes written to the body so far without
// consuming it.
func (r *Response) BodyContents() []byte {
	if o, ok := r.Body().(*OutputStream); ok {
		return o.MockContents()
	}
	return []byte(r.Body().String())
}

// Flush writes the status, every header as one comma-joined line (Set-Cookie
// excepted) and the body to w, then closes the body. It is the only operation that performs I/O.
func (r *Response) Flush(w http.ResponseWriter) error {
	h := w.Header()
	for _, name := range r.headers.order {
		if strings.EqualFold(name, "Set-Cookie") {
			// Cookie attributes contain commas, so each cookie keeps its own line.
			h[name] = slices.Clone(r.headers.values[name])
			continue
		}
		h[name] = []string{strings.Join(r.headers.values[name], ",")}
	}
	w.WriteHeader(r.StatusCode())

	body := r.Body()
	if o, ok := body.(*OutputStream); ok {
		o.SetSink(w)
		return o.Close()
	}

	var errs []error
	if body.Readable() {
		if body.Seekable() {
			if err := body.Rewind(); err != nil {
				errs = append(errs, err)
			}
		}
		if _, err := io.Copy(w, body); err != nil {
			errs = append(errs, err)
		}
	}
	if err := body.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WriteTo writes the response in HTTP/1.x wire format:
// status line, "Name: v1,v2\r\n" headers, a blank line and the body.
// The body is left open.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString("HTTP/")
	b.WriteString(r.ProtocolVersion())
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(r.StatusCode()))
	if reason := r.ReasonPhrase(); reason != "" {
		b.WriteByte(' ')
		b.WriteString(reason)
	}
	b.WriteString("\r\n")
	for _, name := range r.headers.order {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.Join(r.headers.values[name], ","))
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.Write(r.BodyContents())

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
