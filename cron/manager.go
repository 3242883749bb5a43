package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dailyyoga/menuhub/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// chainJob runs the tasks of a chain in order. A run that finds the
// previous one still in progress is skipped.
type chainJob struct {
	name    string
	tasks   []Task
	base    context.Context
	running sync.Mutex
	log     logger.Logger
}

// Run implements cron.Job
func (j *chainJob) Run() {
	_ = j.run(j.base)
}

func (j *chainJob) run(ctx context.Context) error {
	if !j.running.TryLock() {
		j.log.Warn("chain still running, run skipped", zap.String("chain", j.name))
		return nil
	}
	defer j.running.Unlock()

	ctx, _ = WithSharedData(ctx)
	j.log.Info("chain started", zap.String("chain", j.name))

	for _, task := range j.tasks {
		err := task.Run(ctx)
		if errors.Is(err, ErrSkipChain) {
			j.log.Info("chain skipped",
				zap.String("chain", j.name),
				zap.String("task", task.Name()),
			)
			return nil
		}
		if err != nil {
			j.log.Error("chain aborted",
				zap.String("chain", j.name),
				zap.String("task", task.Name()),
				zap.Error(err),
			)
			return err
		}
	}

	j.log.Info("chain completed", zap.String("chain", j.name))
	return nil
}

type manager struct {
	cron        *cron.Cron
	middlewares []Middleware
	log         logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	chains map[string]*chainJob
	closed bool
}

func newManager(log logger.Logger, mws ...Middleware) *manager {
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{log: log}
	return &manager{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		middlewares: mws,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
		chains:      make(map[string]*chainJob),
	}
}

func (m *manager) Start() {
	m.cron.Start()
}

func (m *manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	<-m.cron.Stop().Done()
}

func (m *manager) AddChain(chain Chain) error {
	if len(chain.Tasks) == 0 {
		return ErrNoTasks
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, ok := m.chains[chain.Name]; ok {
		return ErrDuplicateChain(chain.Name)
	}

	tasks := make([]Task, len(chain.Tasks))
	for i, task := range chain.Tasks {
		named := NewTask(fmt.Sprintf("%s:%s", chain.Name, task.Name()), task.Run)
		tasks[i] = applyMiddlewares(named, m.middlewares...)
	}
	job := &chainJob{
		name:  chain.Name,
		tasks: tasks,
		base:  m.ctx,
		log:   m.log,
	}
	if _, err := m.cron.AddJob(chain.Spec, job); err != nil {
		return ErrInvalidSpec(chain.Name, chain.Spec, err)
	}
	m.chains[chain.Name] = job

	m.log.Info("chain added",
		zap.String("chain", chain.Name),
		zap.String("spec", chain.Spec),
		zap.Int("task_count", len(tasks)),
	)
	return nil
}

func (m *manager) RunChain(ctx context.Context, name string) error {
	m.mu.Lock()
	job, ok := m.chains[name]
	closed := m.closed
	m.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if !ok {
		return ErrUnknownChain(name)
	}
	return job.run(ctx)
}

// cronLogger routes the scheduler's own messages to the logger
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, fields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(fields(keysAndValues), zap.Error(err))...)
}

func fields(kv []any) []zap.Field {
	out := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		out = append(out, zap.Any(key, kv[i+1]))
	}
	return out
}
