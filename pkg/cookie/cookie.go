package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/inkwell/pkg/message"
)

// MinSecretLen is the shortest secret WithSecret accepts.
const MinSecretLen = 32

var (
	ErrNotFound = errors.New("cookie: not found")
	ErrNoSecret = errors.New("cookie: no signing secret configured")
	ErrBadSig   = errors.New("cookie: signature mismatch")
)

var enc = base64.RawURLEncoding

// Manager reads and writes the cookies of one site. All cookies it writes
// are HttpOnly.
type Manager struct {
	secret   []byte
	domain   string
	path     string
	sameSite http.SameSite
	secure   bool
}

type Option func(*Manager)

func New(opts ...Option) *Manager {
	m := &Manager{path: "/", sameSite: http.SameSiteLaxMode}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret enables signed cookies. Secrets shorter than MinSecretLen
// are ignored.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) >= MinSecretLen {
			m.secret = []byte(secret)
		}
	}
}

func WithDomain(domain string) Option {
	return func(m *Manager) { m.domain = domain }
}

func WithPath(path string) Option {
	return func(m *Manager) { m.path = path }
}

// WithSecure marks cookies HTTPS-only. Turn it on behind TLS.
func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.sameSite = ss }
}

func (m *Manager) Get(req *message.ServerRequest, name string) (string, error) {
	v, ok := req.CookieParams()[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set adds a Set-Cookie header. maxAge 0 makes a browser-session cookie.
func (m *Manager) Set(resp *message.Response, name, value string, maxAge int) *message.Response {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: m.sameSite,
	}
	return resp.WithAddedHeader("Set-Cookie", c.String())
}

// Delete expires the cookie in the browser.
func (m *Manager) Delete(resp *message.Response, name string) *message.Response {
	return m.Set(resp, name, "", -1)
}

// GetSigned returns the value stored by SetSigned. A cookie moved to
// another name fails the check too.
func (m *Manager) GetSigned(req *message.ServerRequest, name string) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}
	raw, err := m.Get(req, name)
	if err != nil {
		return "", err
	}

	payload, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := enc.DecodeString(payload)
	if err != nil {
		return "", ErrBadSig
	}
	got, err := enc.DecodeString(sig)
	if err != nil || !hmac.Equal(got, m.mac(name, value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}

// SetSigned stores value as base64(value) "." base64(HMAC-SHA256).
func (m *Manager) SetSigned(resp *message.Response, name, value string, maxAge int) (*message.Response, error) {
	if m.secret == nil {
		return nil, ErrNoSecret
	}
	v := []byte(value)
	return m.Set(resp, name, enc.EncodeToString(v)+"."+enc.EncodeToString(m.mac(name, v)), maxAge), nil
}

func (m *Manager) mac(name string, value []byte) []byte {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(name))
	h.Write([]byte{'='})
	h.Write(value)
	return h.Sum(nil)
}
