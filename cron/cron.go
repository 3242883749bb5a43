// Package cron runs named chains of tasks on a cron schedule.
//
// Tasks of a chain run one after another and share a SharedData carried in
// their context. A task returning ErrSkipChain ends the run early without
// it being reported as a failure.
package cron

import (
	"context"

	"github.com/dailyyoga/menuhub/logger"
)

// Task is one step of a chain
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to a Task
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

func (t TaskFunc) Name() string { return t.TaskName }

func (t TaskFunc) Run(ctx context.Context) error { return t.Fn(ctx) }

// NewTask returns a Task named name running fn
func NewTask(name string, fn func(ctx context.Context) error) Task {
	return TaskFunc{TaskName: name, Fn: fn}
}

// Chain is a named list of tasks and the schedule it runs on
type Chain struct {
	Name  string
	Spec  string
	Tasks []Task
}

// Scheduler owns the registered chains
type Scheduler interface {
	// Start begins scheduling
	Start()
	// Close stops scheduling, cancels the context of running chains and
	// waits for them to return
	Close()
	// AddChain registers a chain. Spec uses the six field format with
	// seconds, or a descriptor such as "@every 15s".
	AddChain(chain Chain) error
	// RunChain runs a registered chain once, outside the schedule
	RunChain(ctx context.Context, name string) error
}

// New creates a scheduler. Panic recovery and task logging are always
// applied, followed by mws in order.
func New(log logger.Logger, mws ...Middleware) Scheduler {
	log = log.Named("cron")
	defaultMws := []Middleware{
		recoveryMiddleware(log),
		loggingMiddleware(log),
	}
	return newManager(log, append(defaultMws, mws...)...)
}
