package auth

import (
	"github.com/dmitrymomot/inkwell/internal"
	"github.com/dmitrymomot/inkwell/middlewares"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
)

// LoginPath is where anonymous visitors are sent.
const LoginPath = "/login"

// RequireAdmin lets admins through to next. Anyone else has the request
// URI stored in the session and is redirected to the login page.
func RequireAdmin(next router.Handler) router.Handler {
	return router.HandlerFunc(func(req *message.ServerRequest, resp *message.Response, n router.Next) (*message.Response, error) {
		if out, ok, err := Gate(req); !ok {
			return out, err
		}
		return next.Serve(req, resp, n)
	})
}

// Gate reports whether req comes from an admin. When it does not, it returns
// the redirect to the login page.
func Gate(req *message.ServerRequest) (*message.Response, bool, error) {
	if id, ok := FromRequest(req); ok && id.IsAdmin() {
		return nil, true, nil
	}
	sess := middlewares.GetSession(req)
	if sess == nil {
		return nil, false, internal.ErrInternal("", internal.WithError(ErrNoSession))
	}
	RememberURI(sess, requestURI(req))
	return message.NewRedirectResponse(LoginPath), false, nil
}

func requestURI(req *message.ServerRequest) string {
	if uri := req.ServerParam(message.ServerRequestURI); uri != "" {
		return uri
	}
	return req.URI().Path()
}
