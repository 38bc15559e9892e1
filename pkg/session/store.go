package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/inkwell/pkg/cache"
)

// Store persists sessions.
type Store interface {
	// Get returns ErrNotFound for unknown ids and ErrExpired for stale ones.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// CacheStore keeps sessions in a cache.Cache, normally cache.Redis, with a
// TTL matching the session expiry.
type CacheStore struct {
	cache cache.Cache[*Session]
}

// NewCacheStore returns a Store over c.
func NewCacheStore(c cache.Cache[*Session]) *CacheStore {
	return &CacheStore{cache: c}
}

func (s *CacheStore) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.cache.Get(ctx, id)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	return sess.clone(), nil
}

func (s *CacheStore) Save(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	return s.cache.Set(ctx, sess.ID, sess.clone(), ttl)
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, id)
}

var _ Store = (*CacheStore)(nil)
