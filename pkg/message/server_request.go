package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"mime"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
)

// ErrInvalidBody is returned when a structured body cannot be decoded.
var ErrInvalidBody = errors.New("message: invalid request body")

// Server parameter names.
const (
	ServerRemoteAddr    = "remote_addr"
	ServerRequestURI    = "request_uri"
	ServerProtocol      = "server_protocol"
	ServerHost          = "http_host"
	ServerRequestMethod = "request_method"
)

// ServerRequest is an incoming request together with everything the server
// derived from it: cookies, query, parsed body, uploaded files, and the
// attributes routers attach while dispatching.
type ServerRequest struct {
	Request
	ctx          context.Context
	parsedBody   any
	serverParams map[string]string
	cookies      map[string]string
	query        url.Values
	attributes   map[string]any
	files        map[string][]*UploadedFile
	jsonBody     any
	bodyParsed   bool
	jsonDecoded  bool
}

// NewServerRequest returns a server request for method and target with an
// empty body. It is mostly useful in tests and CLI rendering.
func NewServerRequest(method, target string) (*ServerRequest, error) {
	m, err := NormalizeMethod(method)
	if err != nil {
		return nil, err
	}
	uri := ParseURI(target)
	return &ServerRequest{
		Request: Request{
			Message: newMessage(func() Stream { return NewInputStream(nil, WithMockInput("")) }),
			method:  m,
			target:  target,
			uri:     &uri,
		},
		ctx:          context.Background(),
		serverParams: map[string]string{ServerRequestURI: target, ServerRequestMethod: m},
		query:        queryOf(uri),
	}, nil
}

// HTTPOption configures FromHTTP.
type HTTPOption func(*httpConfig)

type httpConfig struct {
	maxMemory int64
	maxBody   int64
}

// WithMaxMemory sets the multipart memory limit. Defaults to 32MB.
func WithMaxMemory(n int64) HTTPOption {
	return func(c *httpConfig) {
		if n > 0 {
			c.maxMemory = n
		}
	}
}

// WithBodyLimit caps how many body bytes the input stream buffers.
func WithBodyLimit(n int64) HTTPOption {
	return func(c *httpConfig) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// FromHTTP reads r once and builds a ServerRequest from it.
// It fails with ErrInvalidMethod when r.Method is not accepted.
func FromHTTP(r *http.Request, opts ...HTTPOption) (*ServerRequest, error) {
	cfg := &httpConfig{maxMemory: 32 << 20}
	for _, opt := range opts {
		opt(cfg)
	}

	method, err := NormalizeMethod(r.Method)
	if err != nil {
		return nil, err
	}

	target := r.URL.RequestURI()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	uri := ParseURI(scheme + "://" + r.Host + r.URL.RequestURI())

	sr := &ServerRequest{
		Request: Request{
			method: method,
			target: target,
			uri:    &uri,
		},
		ctx: r.Context(),
		serverParams: map[string]string{
			ServerRemoteAddr:    r.RemoteAddr,
			ServerRequestURI:    target,
			ServerProtocol:      r.Proto,
			ServerHost:          r.Host,
			ServerRequestMethod: method,
		},
		cookies: make(map[string]string),
		query:   r.URL.Query(),
	}
	sr.protocol = strconv.Itoa(r.ProtoMajor) + "." + strconv.Itoa(r.ProtoMinor)

	if r.Host != "" {
		sr.headers = sr.headers.with("Host", []string{r.Host})
	}
	for _, name := range slices.Sorted(maps.Keys(r.Header)) {
		sr.headers = sr.headers.with(name, r.Header[name])
	}

	for _, c := range r.Cookies() {
		sr.cookies[c.Name] = c.Value
	}

	if err := sr.readForm(r, cfg.maxMemory); err != nil {
		return nil, err
	}

	body := r.Body
	sr.newBody = func() Stream {
		if body == nil || body == http.NoBody {
			return NewInputStream(nil, WithMockInput(""))
		}
		return NewInputStream(body, WithMaxInputSize(cfg.maxBody))
	}

	return sr, nil
}

func (r *ServerRequest) readForm(req *http.Request, maxMemory int64) error {
	if req.Method != http.MethodPost && req.Method != http.MethodPut {
		return nil
	}
	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := req.ParseMultipartForm(maxMemory); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
		r.parsedBody = req.PostForm
		r.files = make(map[string][]*UploadedFile, len(req.MultipartForm.File))
		for field, headers := range req.MultipartForm.File {
			for _, fh := range headers {
				r.files[field] = append(r.files[field], uploadedFileFromHeader(fh))
			}
		}
	case "application/x-www-form-urlencoded":
		if err := req.ParseForm(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
		r.parsedBody = req.PostForm
	}
	return nil
}

func queryOf(uri URI) url.Values {
	q, err := url.ParseQuery(uri.Query())
	if err != nil {
		return url.Values{}
	}
	return q
}

func (r *ServerRequest) clone() *ServerRequest {
	c := *r
	c.Request = *r.Request.clone()
	return &c
}

// Context returns the request context, never nil.
func (r *ServerRequest) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a copy carrying ctx.
func (r *ServerRequest) WithContext(ctx context.Context) *ServerRequest {
	c := r.clone()
	c.ctx = ctx
	return c
}

// ServerParams returns a copy of the server parameters.
func (r *ServerRequest) ServerParams() map[string]string {
	return maps.Clone(r.serverParams)
}

// ServerParam returns one server parameter.
func (r *ServerRequest) ServerParam(name string) string {
	return r.serverParams[name]
}

// WithServerParam returns a copy with one server parameter replaced.
func (r *ServerRequest) WithServerParam(name, value string) *ServerRequest {
	c := r.clone()
	c.serverParams = maps.Clone(r.serverParams)
	if c.serverParams == nil {
		c.serverParams = make(map[string]string)
	}
	c.serverParams[name] = value
	return c
}

// RemoteIP returns the client IP without the port.
func (r *ServerRequest) RemoteIP() string {
	addr := r.serverParams[ServerRemoteAddr]
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// CookieParams returns a copy of the request cookies.
func (r *ServerRequest) CookieParams() map[string]string {
	return maps.Clone(r.cookies)
}

// Cookie returns one cookie value.
func (r *ServerRequest) Cookie(name string) string {
	return r.cookies[name]
}

func (r *ServerRequest) WithCookieParams(cookies map[string]string) *ServerRequest {
	c := r.clone()
	c.cookies = maps.Clone(cookies)
	return c
}

// QueryParams returns a copy of the query parameters.
func (r *ServerRequest) QueryParams() url.Values {
	return cloneValues(r.query)
}

// QueryParam returns the first value of a query parameter.
func (r *ServerRequest) QueryParam(name string) string {
	return r.query.Get(name)
}

func (r *ServerRequest) WithQueryParams(query url.Values) *ServerRequest {
	c := r.clone()
	c.query = cloneValues(query)
	return c
}

// UploadedFiles returns the uploaded files keyed by form field.
func (r *ServerRequest) UploadedFiles() map[string][]*UploadedFile {
	out := make(map[string][]*UploadedFile, len(r.files))
	for k, v := range r.files {
		out[k] = slices.Clone(v)
	}
	return out
}

func (r *ServerRequest) WithUploadedFiles(files map[string][]*UploadedFile) *ServerRequest {
	c := r.clone()
	c.files = make(map[string][]*UploadedFile, len(files))
	for k, v := range files {
		c.files[k] = slices.Clone(v)
	}
	return c
}

// ParsedBody returns the body set with WithParsedBody, the submitted form
// values, or, when the Content-Type is application/json, the decoded JSON
// body. JSON is decoded once per body and cached until WithBody.
func (r *ServerRequest) ParsedBody() (any, error) {
	if r.bodyParsed {
		return r.parsedBody, nil
	}
	mediaType, _, _ := mime.ParseMediaType(r.HeaderLine("Content-Type"))
	if mediaType != ContentTypeJSON {
		return r.parsedBody, nil
	}
	if r.jsonDecoded {
		return r.jsonBody, nil
	}

	raw := r.Body().String()
	var v any
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
	}
	r.jsonBody = v
	r.jsonDecoded = true
	return v, nil
}

// WithParsedBody returns a copy with the parsed body replaced.
func (r *ServerRequest) WithParsedBody(data any) *ServerRequest {
	c := r.clone()
	c.parsedBody = data
	c.bodyParsed = true
	return c
}

// PostValue returns the first submitted value for name from either a form
// or a decoded JSON object.
func (r *ServerRequest) PostValue(name string) string {
	vals := r.PostValues(name)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// PostValues returns all submitted values for name.
func (r *ServerRequest) PostValues(name string) []string {
	body, err := r.ParsedBody()
	if err != nil {
		return nil
	}
	switch b := body.(type) {
	case url.Values:
		if v, ok := b[name]; ok {
			return slices.Clone(v)
		}
		return slices.Clone(b[name+"[]"])
	case map[string]any:
		return stringValues(b[name])
	}
	return nil
}

// HasPostValue reports whether name was submitted at all.
func (r *ServerRequest) HasPostValue(name string) bool {
	body, err := r.ParsedBody()
	if err != nil {
		return false
	}
	switch b := body.(type) {
	case url.Values:
		_, ok := b[name]
		if !ok {
			_, ok = b[name+"[]"]
		}
		return ok
	case map[string]any:
		_, ok := b[name]
		return ok
	}
	return false
}

// Attributes returns a copy of the routing attributes.
func (r *ServerRequest) Attributes() map[string]any {
	return maps.Clone(r.attributes)
}

// Attribute returns the named attribute or def when it is not set.
func (r *ServerRequest) Attribute(name string, def any) any {
	if v, ok := r.attributes[name]; ok {
		return v
	}
	return def
}

// WithAttribute returns a copy with one attribute set.
func (r *ServerRequest) WithAttribute(name string, value any) *ServerRequest {
	c := r.clone()
	c.attributes = maps.Clone(r.attributes)
	if c.attributes == nil {
		c.attributes = make(map[string]any)
	}
	c.attributes[name] = value
	return c
}

// WithAttributes returns a copy whose attributes are replaced by attrs.
func (r *ServerRequest) WithAttributes(attrs map[string]any) *ServerRequest {
	c := r.clone()
	c.attributes = maps.Clone(attrs)
	return c
}

func (r *ServerRequest) WithoutAttribute(name string) *ServerRequest {
	if _, ok := r.attributes[name]; !ok {
		return r.clone()
	}
	c := r.clone()
	c.attributes = maps.Clone(r.attributes)
	delete(c.attributes, name)
	return c
}

// WithMethod returns a copy with the method replaced.
func (r *ServerRequest) WithMethod(method string) (*ServerRequest, error) {
	req, err := r.Request.WithMethod(method)
	if err != nil {
		return nil, err
	}
	c := *r
	c.Request = *req
	return &c, nil
}

func (r *ServerRequest) WithRequestTarget(target string) *ServerRequest {
	c := *r
	c.Request = *r.Request.WithRequestTarget(target)
	return &c
}

// WithURI returns a copy with the URI replaced; see Request.WithURI.
func (r *ServerRequest) WithURI(uri URI, preserveHost bool) *ServerRequest {
	c := *r
	c.Request = *r.Request.WithURI(uri, preserveHost)
	return &c
}

func (r *ServerRequest) WithProtocolVersion(version string) *ServerRequest {
	c := *r
	c.Request = *r.Request.WithProtocolVersion(version)
	return &c
}

func (r *ServerRequest) WithHeader(name string, values ...string) *ServerRequest {
	c := *r
	c.Request = *r.Request.WithHeader(name, values...)
	return &c
}

func (r *ServerRequest) WithAddedHeader(name string, values ...string) *ServerRequest {
	c := *r
	c.Request = *r.Request.WithAddedHeader(name, values...)
	return &c
}

func (r *ServerRequest) WithoutHeader(name string) *ServerRequest {
	c := *r
	c.Request = *r.Request.WithoutHeader(name)
	return &c
}

func (r *ServerRequest) WithBody(body Stream) *ServerRequest {
	c := *r
	c.Request = *r.Request.WithBody(body)
	c.jsonBody = nil
	c.jsonDecoded = false
	return &c
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = slices.Clone(vals)
	}
	return out
}

func stringValues(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case bool:
		return []string{strconv.FormatBool(val)}
	case float64:
		return []string{strconv.FormatFloat(val, 'f', -1, 64)}
	}
	return []string{fmt.Sprint(v)}
}
