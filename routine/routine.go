// Package routine runs the long lived goroutines of the process.
//
// A Group starts named goroutines that share one context. The first one to
// fail, or to panic, cancels the context so the others can wind down, and
// Wait reports that first error.
package routine

import (
	"context"
	"runtime/debug"

	"github.com/dailyyoga/menuhub/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Group is a set of named goroutines bound to one context
type Group struct {
	g   *errgroup.Group
	ctx context.Context
	log logger.Logger
}

// NewGroup returns a Group whose context is derived from ctx
func NewGroup(ctx context.Context, log logger.Logger) *Group {
	g, gctx := errgroup.WithContext(ctx)
	return &Group{g: g, ctx: gctx, log: log.Named("routine")}
}

// Context is cancelled once any goroutine of the group fails or the parent
// context is done
func (r *Group) Context() context.Context {
	return r.ctx
}

// GoNamed runs fn in a new goroutine. A panic in fn is logged and returned
// from Wait as an error.
func (r *Group) GoNamed(name string, fn func(ctx context.Context) error) {
	r.g.Go(func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error("goroutine panicked",
					zap.String("routine", name),
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
				)
				err = ErrPanic(name, rec)
			}
		}()
		if err := fn(r.ctx); err != nil {
			r.log.Error("goroutine failed", zap.String("routine", name), zap.Error(err))
			return err
		}
		r.log.Debug("goroutine finished", zap.String("routine", name))
		return nil
	})
}

// Wait blocks until every goroutine returned and reports the first error
func (r *Group) Wait() error {
	return r.g.Wait()
}

// Async runs fn detached from any group. The returned channel receives
// exactly one value: the error of fn, or ErrPanic when fn panicked.
func Async(log logger.Logger, name string, fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("goroutine panicked",
					zap.String("routine", name),
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
				)
				done <- ErrPanic(name, rec)
			}
		}()
		done <- fn()
	}()
	return done
}
