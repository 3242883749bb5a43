// Package service coordinates the relational store and the cache for the
// catalog. Reads go to the cache first and fill it from the store on a
// miss. Writes go to the store first and then update the cache: the entity's
// own entry, the entries of its ancestors whose counts changed, and for
// deletes every cached descendant that the store removed by cascade.
//
// Cache failures never fail an operation; they are logged by the cache
// repository and the affected entries are dropped.
package service

import (
	"context"

	"github.com/dailyyoga/menuhub/cache"
	"github.com/dailyyoga/menuhub/logger"
	"github.com/dailyyoga/menuhub/model"
	"github.com/dailyyoga/menuhub/repository"
	"go.uber.org/zap"
)

// Cache namespaces
const (
	MenuNamespace    = "menu"
	SubmenuNamespace = "submenu"
	DishNamespace    = "dish"
)

// base is the read path shared by every entity service
type base[T model.Entity] struct {
	repo  *repository.Repository[T]
	cache *cache.Repository[T]
	log   logger.Logger
}

// Get returns the object with id, or nil when it does not exist. fromCache
// reports whether the store was skipped.
func (s *base[T]) Get(ctx context.Context, id uint) (obj *T, fromCache bool, err error) {
	if obj = s.cache.GetObj(ctx, id); obj != nil {
		return obj, true, nil
	}
	if obj, err = s.repo.Get(ctx, id); err != nil || obj == nil {
		return nil, false, err
	}
	s.cache.SetObj(ctx, obj)
	return obj, false, nil
}

// GetOr404 is Get failing with repository.ErrNotFound on a miss
func (s *base[T]) GetOr404(ctx context.Context, id uint) (obj *T, fromCache bool, err error) {
	if obj = s.cache.GetObj(ctx, id); obj != nil {
		return obj, true, nil
	}
	if obj, err = s.repo.GetOr404(ctx, id); err != nil {
		return nil, false, err
	}
	s.cache.SetObj(ctx, obj)
	return obj, false, nil
}

// GetAll returns every object ordered by id. An empty store yields nil, or
// repository.ErrNotFound when exception is set.
func (s *base[T]) GetAll(ctx context.Context, exception bool) (objs []T, fromCache bool, err error) {
	if objs = s.cache.GetAll(ctx); objs != nil {
		return objs, true, nil
	}
	if objs, err = s.repo.GetAll(ctx, exception); err != nil {
		return nil, false, err
	}
	s.cache.SetAll(ctx, objs)
	return objs, false, nil
}

// refresh rewrites the cached copy of an ancestor from the store. When the
// store read fails the entry is dropped instead, so a stale count is never
// served. It returns the fresh object, or nil.
func refresh[T model.Entity](ctx context.Context, repo *repository.Repository[T], c *cache.Repository[T], id uint, log logger.Logger) *T {
	if !c.Enabled() {
		return nil
	}
	obj, err := repo.Get(ctx, id)
	if err != nil || obj == nil {
		log.Warn("ancestor refresh failed, dropping cached copy",
			zap.String("key", c.Key(id)), zap.Error(err))
		c.Invalidate(ctx, id)
		return nil
	}
	c.SetObj(ctx, obj)
	return obj
}
