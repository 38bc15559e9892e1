package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
)

// ErrorRenderer renders the page for a failed request.
type ErrorRenderer func(ctx context.Context, e *HTTPError) (*message.Response, error)

// Entry adapts the request pipeline to net/http. It builds the server
// request, runs the pipeline with an empty 200 response and flushes the
// result. Failures become error pages.
type Entry struct {
	pipeline router.Handler
	logger   *slog.Logger
	render   ErrorRenderer
	opts     []message.HTTPOption
}

// NewEntry returns an Entry. maxMemory and bodyLimit of zero keep the
// message package defaults.
func NewEntry(pipeline router.Handler, log *slog.Logger, render ErrorRenderer, maxMemory, bodyLimit int64) *Entry {
	return &Entry{
		pipeline: pipeline,
		logger:   log,
		render:   render,
		opts:     []message.HTTPOption{message.WithMaxMemory(maxMemory), message.WithBodyLimit(bodyLimit)},
	}
}

func (e *Entry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := message.FromHTTP(r, e.opts...)
	var resp *message.Response
	if err == nil {
		resp, err = e.pipeline.Serve(req, message.NewEmptyResponse(), nil)
	}
	if err != nil {
		resp = e.fail(ctx, r, err)
	}

	if err := resp.Flush(w); err != nil {
		e.logger.WarnContext(ctx, "flush response", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
}

func (e *Entry) fail(ctx context.Context, r *http.Request, err error) *message.Response {
	he := classify(err)
	if he.Code >= http.StatusInternalServerError {
		e.logger.ErrorContext(ctx, "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", he.RequestID),
			slog.Any("error", err),
		)
	}

	if e.render != nil {
		resp, rerr := e.render(ctx, he)
		if rerr == nil {
			if resp, rerr = resp.WithStatus(he.Code, ""); rerr == nil {
				return resp
			}
		}
		e.logger.ErrorContext(ctx, "render error page", slog.Any("error", rerr))
	}

	resp, _ := message.NewResponse(he.Code, he.StatusText())
	return resp.WithHeader("Content-Type", "text/plain; charset=utf-8")
}

// classify maps a pipeline error to the HTTP error shown to the visitor.
// Internal details never reach Message.
func classify(err error) *HTTPError {
	var reqID string
	var re *RequestError
	if errors.As(err, &re) {
		reqID = re.RequestID
	}

	var out *HTTPError
	if he, ok := AsHTTPError(err); ok {
		c := *he
		out = &c
	} else {
		switch {
		case router.IsNotFound(err):
			out = ErrNotFound("", WithError(err))
		case errors.Is(err, message.ErrInvalidMethod):
			out = ErrMethodNotAllowed("", WithError(err))
		default:
			out = ErrInternal("", WithError(err))
		}
	}
	if out.RequestID == "" {
		out.RequestID = reqID
	}
	return out
}
