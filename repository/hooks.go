package repository

import "context"

// The hook interfaces below form the capability set an entity type may opt
// into. Repository checks for each one at call time and fails with
// ErrNotImplemented when a required hook is missing.

// PermissionChecker authorizes user against obj before update or delete.
// Required whenever a user is passed.
type PermissionChecker[T any] interface {
	HasPermission(ctx context.Context, obj *T, user any) error
}

// UpdateValidator vetoes an update. Required for every update.
type UpdateValidator[T any] interface {
	IsUpdateAllowed(ctx context.Context, obj *T, changes map[string]any) error
}

// DeleteValidator vetoes a delete. Required for every delete.
type DeleteValidator[T any] interface {
	IsDeleteAllowed(ctx context.Context, obj *T) error
}

// CreatePerformer attaches a new object to its parent. Required whenever a
// parent id is passed to Create.
type CreatePerformer[T any] interface {
	PerformCreate(obj *T, parentID uint) error
}

// UpdatePerformer applies changes itself, possibly rewriting values.
// Required when Update is called with WithPerformUpdate.
type UpdatePerformer[T any] interface {
	PerformUpdate(obj *T, changes map[string]any) (*T, error)
}

// Option tunes a single Update or Delete call
type Option func(*options)

type options struct {
	user          any
	performUpdate bool
}

// WithUser runs the HasPermission hook for user
func WithUser(user any) Option {
	return func(o *options) { o.user = user }
}

// WithPerformUpdate hands the changes to the PerformUpdate hook instead of
// assigning them field by field
func WithPerformUpdate() Option {
	return func(o *options) { o.performUpdate = true }
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
