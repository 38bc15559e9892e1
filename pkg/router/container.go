package router

import (
	"fmt"
	"sync"

	"github.com/dmitrymomot/inkwell/pkg/message"
)

// FactoryFunc builds a service on first use.
type FactoryFunc func(c *Container) (any, error)

// Container is a lazy service registry. Factories run at most once; their
// result is memoized. It is safe for concurrent use.
type Container struct {
	services  map[string]any
	factories map[string]FactoryFunc
	mu        sync.Mutex
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{
		services:  make(map[string]any),
		factories: make(map[string]FactoryFunc),
	}
}

// Set registers a ready service under id.
func (c *Container) Set(id string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[id] = service
	delete(c.factories, id)
}

// Factory registers a lazy constructor under id.
func (c *Container) Factory(id string, fn FactoryFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[id] = fn
	delete(c.services, id)
}

// Has reports whether id is registered.
func (c *Container) Has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.services[id]
	if !ok {
		_, ok = c.factories[id]
	}
	return ok
}

// Get returns the service registered under id, building it if needed.
func (c *Container) Get(id string) (any, error) {
	c.mu.Lock()
	if s, ok := c.services[id]; ok {
		c.mu.Unlock()
		return s, nil
	}
	fn, ok := c.factories[id]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
	}

	// The lock is released while the factory runs so it can resolve its own
	// dependencies.
	s, err := fn(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrServiceFactory, id, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s returned nil", ErrServiceFactory, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.services[id]; ok {
		return existing, nil
	}
	c.services[id] = s
	delete(c.factories, id)
	return s, nil
}

// Resolve returns the service under id as T.
func Resolve[T any](c *Container, id string) (T, error) {
	var zero T
	s, err := c.Get(id)
	if err != nil {
		return zero, err
	}
	t, ok := s.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrServiceFactory, id, s)
	}
	return t, nil
}

// Lazy returns a Handler that resolves the handler registered under id on
// every dispatch.
func Lazy(c *Container, id string) Handler {
	return HandlerFunc(func(req *message.ServerRequest, resp *message.Response, next Next) (*message.Response, error) {
		h, err := Resolve[Handler](c, id)
		if err != nil {
			return nil, err
		}
		return h.Serve(req, resp, next)
	})
}
