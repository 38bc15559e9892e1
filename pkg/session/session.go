package session

import (
	"fmt"
	"maps"
	"time"
)

// Session is the server-side state behind the session cookie.
// Values holds strings only so it survives a JSON round trip unchanged.
type Session struct {
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
	Values    map[string]string `json:"values"`
	UserID    *string           `json:"user_id,omitempty"` // nil = anonymous session
	ID        string            `json:"id"`

	dirty bool
	isNew bool
}

// New returns a fresh, unsaved session.
func New(id string, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		Values:    make(map[string]string),
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
		isNew:     true,
		dirty:     true,
	}
}

func (s *Session) IsAuthenticated() bool {
	return s.UserID != nil && *s.UserID != ""
}

// Authenticate binds the session to userID.
func (s *Session) Authenticate(userID string) {
	s.UserID = &userID
	s.dirty = true
}

// Logout drops the user binding and keeps the other values.
func (s *Session) Logout() {
	if s.UserID == nil {
		return
	}
	s.UserID = nil
	s.dirty = true
}

func (s *Session) Set(key, val string) {
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	s.Values[key] = val
	s.dirty = true
}

func (s *Session) Get(key string) (string, bool) {
	val, ok := s.Values[key]
	return val, ok
}

// Pop returns a value and removes it.
func (s *Session) Pop(key string) (string, bool) {
	val, ok := s.Values[key]
	if ok {
		delete(s.Values, key)
		s.dirty = true
	}
	return val, ok
}

func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

func (s *Session) IsDirty() bool { return s.dirty }
func (s *Session) ClearDirty()   { s.dirty = false }
func (s *Session) IsNew() bool   { return s.isNew }
func (s *Session) ClearNew()     { s.isNew = false }

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// clone copies the persisted state. The copy is neither new nor dirty.
func (s *Session) clone() *Session {
	c := *s
	c.isNew = false
	c.dirty = false
	c.Values = maps.Clone(s.Values)
	if s.UserID != nil {
		id := *s.UserID
		c.UserID = &id
	}
	return &c
}

// Value returns a required value, failing with ErrNotFound when it is unset.
func Value(s *Session, key string) (string, error) {
	if s == nil {
		return "", ErrNotFound
	}
	val, ok := s.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return val, nil
}

// ValueOr returns the value under key, or def.
func ValueOr(s *Session, key, def string) string {
	val, err := Value(s, key)
	if err != nil {
		return def
	}
	return val
}
