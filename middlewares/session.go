package middlewares

import (
	"errors"

	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
	"github.com/dmitrymomot/inkwell/pkg/session"
)

// AttrSession is the request attribute holding the *session.Session.
const AttrSession = "session"

// ErrNoSession is returned by handlers that need a session when the
// Session middleware did not run.
var ErrNoSession = errors.New("middlewares: no session on request")

// Session loads the visitor's session before the rest of the chain and
// saves it afterwards when it changed.
func Session(m *session.Manager) router.Handler {
	return router.HandlerFunc(func(req *message.ServerRequest, resp *message.Response, next router.Next) (*message.Response, error) {
		if next == nil {
			return resp, nil
		}

		sess, err := m.Load(req.Context(), req)
		if err != nil {
			return nil, err
		}

		out, err := next(req.WithAttribute(AttrSession, sess), resp)
		if err != nil {
			return nil, err
		}
		return m.Save(req.Context(), out, sess)
	})
}

// GetSession returns the request's session, or nil.
func GetSession(req *message.ServerRequest) *session.Session {
	sess, _ := req.Attribute(AttrSession, nil).(*session.Session)
	return sess
}
