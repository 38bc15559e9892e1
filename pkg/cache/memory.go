package cache

import (
	"context"
	"sync"
	"time"
)

type item[V any] struct {
	value   V
	expires time.Time
}

func (it item[V]) live(now time.Time) bool {
	return it.expires.IsZero() || now.Before(it.expires)
}

// Memory is a process-local cache. Tests and single-node setups use it in
// place of Redis.
type Memory[V any] struct {
	mu     sync.RWMutex
	items  map[string]item[V]
	ttl    time.Duration
	stop   chan struct{}
	closed bool
}

var _ Cache[any] = (*Memory[any])(nil)

// NewMemory starts a janitor that drops expired items unless
// WithCleanupInterval(0) is given.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := memoryOptions{defaultTTL: time.Hour, cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory[V]{items: map[string]item[V]{}, ttl: o.defaultTTL, stop: make(chan struct{})}
	if o.cleanupInterval > 0 {
		go m.janitor(o.cleanupInterval)
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || !it.live(time.Now()) {
		var zero V
		return zero, ErrNotFound
	}
	return it.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if ttl == 0 {
		ttl = m.ttl
	}
	it := item[V]{value: value}
	if ttl > 0 {
		it.expires = time.Now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.items[key] = it
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}

// Len counts stored items, expired ones included until the janitor runs.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close stops the janitor. Later writes fail with ErrClosed.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.stop)
	}
	return nil
}

func (m *Memory[V]) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-t.C:
			m.mu.Lock()
			for k, it := range m.items {
				if !it.live(now) {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
