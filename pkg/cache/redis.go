package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps values as marshaled bytes under "prefix:key".
type Redis[V any] struct {
	client redis.UniversalClient
	codec  Marshaler[V]
	prefix string
	ttl    time.Duration
}

var _ Cache[any] = (*Redis[any])(nil)

// NewRedis wraps a client opened with pkg/redis. A nil m stores JSON.
//
//	sessions := cache.NewRedis[*session.Session](client, nil, cache.WithPrefix("inkwell:session"))
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	o := redisOptions{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(&o)
	}
	if m == nil {
		m = jsonMarshaler[V]{}
	}
	return &Redis[V]{client: client, codec: m, prefix: o.prefix, ttl: o.defaultTTL}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		var zero V
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return r.codec.Unmarshal(data)
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.codec.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.ttl
	}
	// go-redis reads 0 as no expiry
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Close leaves the client open; pkg/redis.Shutdown closes it.
func (r *Redis[V]) Close() error { return nil }

func (r *Redis[V]) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}
