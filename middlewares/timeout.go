package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
)

// DefaultTimeout is used when Timeout gets a non-positive duration.
const DefaultTimeout = 30 * time.Second

// Timeout bounds the rest of the chain. The request context carries the
// deadline; when it passes first the result is a *TimeoutError.
//
// The handler goroutine keeps running after a timeout. Long operations
// should watch req.Context().Done().
func Timeout(log *slog.Logger, timeout time.Duration) router.Handler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	type result struct {
		resp *message.Response
		err  error
	}

	return router.HandlerFunc(func(req *message.ServerRequest, resp *message.Response, next router.Next) (*message.Response, error) {
		if next == nil {
			return resp, nil
		}

		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()
		req = req.WithContext(ctx)

		done := make(chan result, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- result{err: &PanicError{Value: r}}
				}
			}()
			out, err := next(req, resp)
			done <- result{out, err}
		}()

		select {
		case r := <-done:
			return r.resp, r.err
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.WarnContext(ctx, "request timeout", "timeout", timeout.String(), "path", req.URI().Path())
				return nil, &TimeoutError{Duration: timeout}
			}
			return nil, ctx.Err()
		}
	})
}
