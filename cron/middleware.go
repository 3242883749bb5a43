package cron

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/dailyyoga/menuhub/logger"
	"go.uber.org/zap"
)

// Middleware wraps a Task
type Middleware func(Task) Task

// applyMiddlewares wraps t so that mws[0] runs outermost
func applyMiddlewares(t Task, mws ...Middleware) Task {
	for i := len(mws) - 1; i >= 0; i-- {
		t = mws[i](t)
	}
	return t
}

// recoveryMiddleware turns a task panic into an error
func recoveryMiddleware(log logger.Logger) Middleware {
	return func(next Task) Task {
		return NewTask(next.Name(), func(ctx context.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("task panicked",
						zap.String("task", next.Name()),
						zap.Any("panic", r),
						zap.String("stack", string(debug.Stack())),
					)
					err = fmt.Errorf("cron: panic recovered: %v", r)
				}
			}()
			return next.Run(ctx)
		})
	}
}

func loggingMiddleware(log logger.Logger) Middleware {
	return func(next Task) Task {
		return NewTask(next.Name(), func(ctx context.Context) error {
			start := time.Now()
			log.Debug("task started", zap.String("task", next.Name()))

			err := next.Run(ctx)

			duration := time.Since(start)
			switch {
			case errors.Is(err, ErrSkipChain):
				log.Debug("task skipped chain",
					zap.String("task", next.Name()),
					zap.Duration("duration", duration),
				)
			case err != nil:
				log.Error("task failed",
					zap.String("task", next.Name()),
					zap.Duration("duration", duration),
					zap.Error(err),
				)
			default:
				log.Info("task completed",
					zap.String("task", next.Name()),
					zap.Duration("duration", duration),
				)
			}
			return err
		})
	}
}

// Timeout bounds every task run by d
func Timeout(d time.Duration) Middleware {
	return func(next Task) Task {
		return NewTask(next.Name(), func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Run(ctx)
		})
	}
}
