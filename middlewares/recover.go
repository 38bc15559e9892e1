package middlewares

import (
	"log/slog"
	"runtime"

	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

type RecoverConfig struct {
	StackSize         int
	DisablePrintStack bool
}

type RecoverOption func(*RecoverConfig)

func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack skips stack capture.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover catches panics further down the chain, logs them and returns a
// *PanicError instead.
func Recover(log *slog.Logger, opts ...RecoverOption) router.Handler {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return router.HandlerFunc(func(req *message.ServerRequest, resp *message.Response, next router.Next) (out *message.Response, err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			attrs := []any{"panic", r, "path", req.URI().Path()}
			var stack []byte
			if !cfg.DisablePrintStack {
				stack = make([]byte, cfg.StackSize)
				stack = stack[:runtime.Stack(stack, false)]
				attrs = append(attrs, "stack", string(stack))
			}
			log.ErrorContext(req.Context(), "panic recovered", attrs...)

			out, err = nil, &PanicError{Value: r, Stack: stack}
		}()

		if next == nil {
			return resp, nil
		}
		return next(req, resp)
	})
}
