package job

import (
	"log/slog"
	"time"

	"github.com/riverqueue/river"
)

// Config sizes the worker pool.
type Config struct {
	MaxWorkers  int `env:"JOB_MAX_WORKERS" envDefault:"10"`
	MailWorkers int `env:"JOB_MAIL_WORKERS" envDefault:"2"`
}

type config struct {
	registry   *registry
	queues     map[string]int
	logger     *slog.Logger
	schedules  []ScheduledTask
	maxWorkers int
}

// Option configures a Manager.
type Option func(*config)

// WithTask registers task under its name.
func WithTask[P any](task Task[P]) Option {
	return func(c *config) {
		c.registry.register(task.Name(), typed(task))
	}
}

// WithScheduledTask registers a periodic task.
func WithScheduledTask(task ScheduledTask) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, task)
	}
}

// WithQueue adds a named queue with its own worker count.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithMaxWorkers sizes the default queue.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

type enqueueConfig struct {
	queue       string
	uniqueKey   string
	uniqueFor   time.Duration
	delay       time.Duration
	maxAttempts int
}

// EnqueueOption adjusts a single insert.
type EnqueueOption func(*enqueueConfig)

// InQueue routes the job to a named queue.
func InQueue(name string) EnqueueOption {
	return func(c *enqueueConfig) {
		if name != "" {
			c.queue = name
		}
	}
}

// ScheduledIn delays the job by d.
func ScheduledIn(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) { c.delay = d }
}

// MaxAttempts caps retries. River's default is 25.
func MaxAttempts(n int) EnqueueOption {
	return func(c *enqueueConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// Unique skips the insert while a job with the same task and key was
// inserted within period.
func Unique(key string, period time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueKey, c.uniqueFor = key, period
	}
}

func insertArgs(name string, raw []byte, now time.Time, opts ...EnqueueOption) (*taskArgs, *river.InsertOpts) {
	cfg := &enqueueConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	args := &taskArgs{Task: name, Payload: raw}
	ins := &river.InsertOpts{Queue: cfg.queue, MaxAttempts: cfg.maxAttempts}
	if cfg.delay > 0 {
		ins.ScheduledAt = now.Add(cfg.delay)
	}
	if cfg.uniqueFor > 0 {
		args.UniqueKey = cfg.uniqueKey
		ins.UniqueOpts = river.UniqueOpts{ByArgs: true, ByPeriod: cfg.uniqueFor}
	}
	return args, ins
}
