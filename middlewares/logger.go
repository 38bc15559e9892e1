package middlewares

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
)

// Logger writes one access log record per request.
func Logger(log *slog.Logger) router.Handler {
	return router.HandlerFunc(func(req *message.ServerRequest, resp *message.Response, next router.Next) (*message.Response, error) {
		if next == nil {
			return resp, nil
		}

		start := time.Now()
		out, err := next(req, resp)

		attrs := []any{
			"method", req.Method(),
			"path", req.URI().Path(),
			"remote_ip", req.RemoteIP(),
			"duration", time.Since(start),
		}
		switch {
		case err != nil:
			log.WarnContext(req.Context(), "request failed", append(attrs, "error", err)...)
		default:
			log.InfoContext(req.Context(), "request", append(attrs, "status", out.StatusCode())...)
		}
		return out, err
	})
}
