package middlewares

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/inkwell/internal"
	"github.com/dmitrymomot/inkwell/pkg/id"
	"github.com/dmitrymomot/inkwell/pkg/logger"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
)

// AttrRequestID is the request attribute holding the request ID.
const AttrRequestID = "request_id"

type requestIDKey struct{}

// DefaultRequestIDHeaders are checked in order for an upstream request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

type RequestIDConfig struct {
	Generator      func() string
	ResponseHeader string
	Headers        []string
}

type RequestIDOption func(*RequestIDConfig)

func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Generator = gen
	}
}

func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID reuses an upstream ID or generates a ULID. The ID goes into the
// request context and attributes, and onto the final response header.
func RequestID(opts ...RequestIDOption) router.Handler {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      id.NewULID,
		ResponseHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return router.HandlerFunc(func(req *message.ServerRequest, resp *message.Response, next router.Next) (*message.Response, error) {
		var reqID string
		for _, h := range cfg.Headers {
			if v := req.HeaderLine(h); v != "" {
				reqID = v
				break
			}
		}
		if reqID == "" {
			reqID = cfg.Generator()
		}

		req = req.WithContext(WithRequestID(req.Context(), reqID)).WithAttribute(AttrRequestID, reqID)
		if next != nil {
			var err error
			if resp, err = next(req, resp); err != nil {
				return nil, &internal.RequestError{Err: err, RequestID: reqID}
			}
		}
		return resp.WithHeader(cfg.ResponseHeader, reqID), nil
	})
}

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the request ID from ctx, or "".
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestIDExtractor adds request_id to log records.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v := GetRequestID(ctx); v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
