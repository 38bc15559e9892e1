package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/robfig/cron/v3"
)

const defaultMaxWorkers = 10

// Manager owns the River client: it inserts jobs and, once started, works
// them. Jobs may be enqueued before Start.
type Manager struct {
	pool     *pgxpool.Pool
	client   *river.Client[pgx.Tx]
	registry *registry
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewManager registers the tasks and builds the client.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := &config{
		registry:   newRegistry(),
		queues:     make(map[string]int),
		logger:     slog.New(slog.DiscardHandler),
		maxWorkers: defaultMaxWorkers,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	queues := map[string]river.QueueConfig{
		river.QueueDefault: {MaxWorkers: cfg.maxWorkers},
	}
	for name, n := range cfg.queues {
		queues[name] = river.QueueConfig{MaxWorkers: n}
	}

	periodic, err := periodicJobs(cfg)
	if err != nil {
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &taskWorker{registry: cfg.registry, logger: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       queues,
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		pool:     pool,
		client:   client,
		registry: cfg.registry,
		logger:   cfg.logger,
	}, nil
}

func periodicJobs(cfg *config) ([]*river.PeriodicJob, error) {
	jobs := make([]*river.PeriodicJob, 0, len(cfg.schedules))
	for _, task := range cfg.schedules {
		sched, err := parseSchedule(task.Schedule())
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %w", ErrInvalidSchedule, task.Name(), task.Schedule(), err)
		}
		name := task.Name()
		cfg.registry.register(name, executorFunc(func(ctx context.Context, _ json.RawMessage) error {
			return task.Handle(ctx)
		}))
		jobs = append(jobs, river.NewPeriodicJob(sched,
			func() (river.JobArgs, *river.InsertOpts) {
				return &taskArgs{Task: name}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: false},
		))
	}
	return jobs, nil
}

// Start begins working jobs until Stop or ctx is done.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start: %w", err)
	}
	m.started = true
	m.logger.InfoContext(ctx, "job manager started", slog.Any("tasks", m.registry.names()))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop: %w", err)
	}
	m.started = false
	m.logger.InfoContext(ctx, "job manager stopped")
	return nil
}

// Running reports whether Start succeeded and Stop has not been called.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Enqueue inserts a job for a registered task.
func (m *Manager) Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) error {
	args, ins, err := m.prepare(name, payload, opts...)
	if err != nil {
		return err
	}
	if _, err := m.client.Insert(ctx, args, ins); err != nil {
		return fmt.Errorf("job: enqueue %s: %w", name, err)
	}
	return nil
}

// EnqueueTx inserts a job inside tx; it becomes visible on commit.
func (m *Manager) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...EnqueueOption) error {
	args, ins, err := m.prepare(name, payload, opts...)
	if err != nil {
		return err
	}
	if _, err := m.client.InsertTx(ctx, tx, args, ins); err != nil {
		return fmt.Errorf("job: enqueue %s: %w", name, err)
	}
	return nil
}

func (m *Manager) prepare(name string, payload any, opts ...EnqueueOption) (*taskArgs, *river.InsertOpts, error) {
	if _, ok := m.registry.get(name); !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, errors.Join(ErrInvalidPayload, err)
	}
	args, ins := insertArgs(name, raw, time.Now(), opts...)
	return args, ins, nil
}

// taskArgs is the single River job kind; Task selects the handler.
type taskArgs struct {
	Task      string          `json:"task" river:"unique"`
	UniqueKey string          `json:"unique_key,omitempty" river:"unique"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string { return "inkwell:task" }

type taskWorker struct {
	river.WorkerDefaults[taskArgs]
	registry *registry
	logger   *slog.Logger
}

func (w *taskWorker) Work(ctx context.Context, job *river.Job[taskArgs]) error {
	ex, ok := w.registry.get(job.Args.Task)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, job.Args.Task)
	}

	log := w.logger.With(
		slog.String("task", job.Args.Task),
		slog.Int64("job_id", job.ID),
		slog.Int("attempt", job.Attempt),
	)
	if err := ex.Execute(ctx, job.Args.Payload); err != nil {
		log.ErrorContext(ctx, "task failed", slog.Any("error", err))
		return err
	}
	log.DebugContext(ctx, "task completed")
	return nil
}

type cronSchedule struct{ cron.Schedule }

func parseSchedule(expr string) (river.PeriodicSchedule, error) {
	s, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, err
	}
	return cronSchedule{s}, nil
}

// Shutdown adapts Stop to a shutdown hook.
func (m *Manager) Shutdown() func(context.Context) error {
	return m.Stop
}
