package message

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Methods lists the accepted request methods.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodDelete,
	http.MethodPut,
	http.MethodOptions,
}

// NormalizeMethod uppercases method and checks it against Methods.
func NormalizeMethod(method string) (string, error) {
	m := strings.ToUpper(method)
	if !slices.Contains(Methods, m) {
		return "", fmt.Errorf("%w: %s is not a valid HTTP method", ErrInvalidMethod, m)
	}
	return m, nil
}

// Request is an immutable outgoing or incoming HTTP request.
type Request struct {
	Message
	method string
	target string
	uri    *URI
}

// NewRequest returns a request for method and uri.
func NewRequest(method, uri string) (*Request, error) {
	m, err := NormalizeMethod(method)
	if err != nil {
		return nil, err
	}
	u := ParseURI(uri)
	r := &Request{Message: newMessage(nil), method: m}
	return r.WithURI(u, false), nil
}

func (r *Request) clone() *Request {
	c := *r
	c.Message = r.Message.clone()
	return &c
}

// Method returns the request method, GET by default.
func (r *Request) Method() string {
	if r.method == "" {
		return http.MethodGet
	}
	return r.method
}

// WithMethod returns a copy with the method replaced.
// The method is uppercased and must be one of Methods.
func (r *Request) WithMethod(method string) (*Request, error) {
	m, err := NormalizeMethod(method)
	if err != nil {
		return nil, err
	}
	c := r.clone()
	c.method = m
	return c, nil
}

// RequestTarget returns the request target, "/" by default.
func (r *Request) RequestTarget() string {
	if r.target == "" {
		return "/"
	}
	return r.target
}

func (r *Request) WithRequestTarget(target string) *Request {
	c := r.clone()
	c.target = target
	return c
}

// URI returns the request URI, "/" by default.
func (r *Request) URI() URI {
	if r.uri == nil {
		return ParseURI("/")
	}
	return *r.uri
}

// WithURI returns a copy with the URI replaced. Unless preserveHost is set,
// a non-empty URI host also replaces the Host header.
func (r *Request) WithURI(uri URI, preserveHost bool) *Request {
	c := r.clone()
	if host := uri.Host(); host != "" && !preserveHost {
		c.headers = c.headers.with("Host", []string{host})
	}
	c.uri = &uri
	return c
}

func (r *Request) WithProtocolVersion(version string) *Request {
	c := r.clone()
	c.protocol = version
	return c
}

// WithHeader returns a copy with every value of name replaced.
func (r *Request) WithHeader(name string, values ...string) *Request {
	c := r.clone()
	c.headers = c.headers.with(name, values)
	return c
}

// WithAddedHeader returns a copy with values appended to name.
func (r *Request) WithAddedHeader(name string, values ...string) *Request {
	c := r.clone()
	c.headers = c.headers.added(name, values)
	return c
}

func (r *Request) WithoutHeader(name string) *Request {
	c := r.clone()
	c.headers = c.headers.without(name)
	return c
}

func (r *Request) WithBody(body Stream) *Request {
	c := r.clone()
	c.body = body
	return c
}
