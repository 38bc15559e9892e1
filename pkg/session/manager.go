package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/inkwell/pkg/cookie"
	"github.com/dmitrymomot/inkwell/pkg/message"
)

// DefaultCookieName is the cookie that carries the session id.
const DefaultCookieName = "inkwell_sid"

// Manager loads and saves the session of a request. The id travels in a
// signed cookie; everything else stays in the Store.
type Manager struct {
	store   Store
	cookies *cookie.Manager
	name    string
	ttl     time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// WithTTL sets how long a session lives. Defaults to 14 days.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// NewManager returns a Manager. cookies must carry a secret.
func NewManager(store Store, cookies *cookie.Manager, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:   store,
		cookies: cookies,
		name:    DefaultCookieName,
		ttl:     14 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load returns the session referenced by the request cookie, or a new one
// when the cookie is missing, forged, or points at an expired session.
func (m *Manager) Load(ctx context.Context, req *message.ServerRequest) (*Session, error) {
	id, err := m.cookies.GetSigned(req, m.name)
	switch {
	case err == nil:
	case errors.Is(err, cookie.ErrNotFound), errors.Is(err, cookie.ErrBadSig):
		return m.fresh(), nil
	default:
		return nil, err
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrExpired) {
			return m.fresh(), nil
		}
		return nil, err
	}
	return sess, nil
}

// Save stores a dirty session and, for a new one, adds the cookie to resp.
func (m *Manager) Save(ctx context.Context, resp *message.Response, sess *Session) (*message.Response, error) {
	if !sess.IsDirty() {
		return resp, nil
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	sess.ClearDirty()

	if !sess.IsNew() {
		return resp, nil
	}
	sess.ClearNew()
	return m.cookies.SetSigned(resp, m.name, sess.ID, int(m.ttl.Seconds()))
}

// Destroy removes the session and expires its cookie.
func (m *Manager) Destroy(ctx context.Context, resp *message.Response, sess *Session) (*message.Response, error) {
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return nil, err
	}
	return m.cookies.Delete(resp, m.name), nil
}

func (m *Manager) fresh() *Session {
	return New(uuid.NewString(), time.Now().Add(m.ttl))
}
