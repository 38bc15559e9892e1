package job

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sync"
)

// Task is a named handler for one payload type. Payloads travel as JSON.
type Task[P any] interface {
	Name() string
	Handle(ctx context.Context, payload P) error
}

// ScheduledTask runs on a five-field cron schedule without a payload.
type ScheduledTask interface {
	Name() string
	Schedule() string
	Handle(ctx context.Context) error
}

type executor interface {
	Execute(ctx context.Context, payload json.RawMessage) error
}

type executorFunc func(ctx context.Context, payload json.RawMessage) error

func (f executorFunc) Execute(ctx context.Context, payload json.RawMessage) error {
	return f(ctx, payload)
}

type registry struct {
	executors map[string]executor
	mu        sync.RWMutex
}

func newRegistry() *registry {
	return &registry{executors: make(map[string]executor)}
}

func (r *registry) register(name string, ex executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[name] = ex
}

func (r *registry) get(name string) (executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.executors[name]
	return ex, ok
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.executors))
}

// typed decodes the raw payload into P before calling the task.
func typed[P any](task Task[P]) executor {
	return executorFunc(func(ctx context.Context, raw json.RawMessage) error {
		var payload P
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return errors.Join(ErrInvalidPayload, err)
			}
		}
		return task.Handle(ctx, payload)
	})
}
