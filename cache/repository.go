package cache

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dailyyoga/menuhub/logger"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const scanBatch = 100

// Keyed is implemented by anything stored in a Repository
type Keyed interface {
	GetID() uint
}

// Repository stores serialized T values under "<name>:<id>".
//
// Alongside the members it keeps a completeness marker "<name>#all", written
// by SetAll before the members and with the same TTL. GetAll only trusts
// the namespace while the marker is alive: single-object reads populate the
// namespace one key at a time, and that partial view must never be served
// as the full list.
type Repository[T Keyed] struct {
	rdb    Redis
	name   string
	prefix string
	marker string
	ttl    time.Duration
	log    logger.Logger
}

// NewRepository returns the repository for namespace name. A nil rdb
// disables caching.
func NewRepository[T Keyed](rdb Redis, name string, ttl time.Duration, log logger.Logger) *Repository[T] {
	return &Repository[T]{
		rdb:    rdb,
		name:   name,
		prefix: name + ":",
		marker: name + "#all",
		ttl:    ttl,
		log:    log.Named("cache").With(zap.String("namespace", name)),
	}
}

// Enabled reports whether a client is configured
func (r *Repository[T]) Enabled() bool {
	return r.rdb != nil
}

// Prefix returns the namespace prefix, e.g. "menu:"
func (r *Repository[T]) Prefix() string {
	return r.prefix
}

// Key builds the namespaced key for id. Already prefixed string keys are
// returned unchanged.
func (r *Repository[T]) Key(id any) string {
	if s, ok := id.(string); ok {
		if strings.HasPrefix(s, r.prefix) {
			return s
		}
		return r.prefix + s
	}
	return fmt.Sprintf("%s%v", r.prefix, id)
}

// GetObj returns the cached object for id, or nil on a miss or an
// undecodable entry
func (r *Repository[T]) GetObj(ctx context.Context, id any) *T {
	if r.rdb == nil {
		return nil
	}
	key := r.Key(id)
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	obj := new(T)
	if err := json.Unmarshal(data, obj); err != nil {
		r.log.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return nil
	}
	return obj
}

// GetAll returns every object of the namespace ordered by id. It returns
// nil when the namespace is not known to be complete, is empty, or holds
// any entry that cannot be decoded.
func (r *Repository[T]) GetAll(ctx context.Context) []T {
	if r.rdb == nil {
		return nil
	}
	n, err := r.rdb.Exists(ctx, r.marker).Result()
	if err != nil || n == 0 {
		if err != nil {
			r.log.Warn("cache marker check failed", zap.Error(err))
		}
		return nil
	}

	var keys []string
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.log.Warn("cache scan failed", zap.Error(err))
		return nil
	}
	if len(keys) == 0 {
		return nil
	}

	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		r.log.Warn("cache mget failed", zap.Error(err))
		return nil
	}
	objs := make([]T, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// expired between SCAN and MGET
			return nil
		}
		var obj T
		if err := json.UnmarshalFromString(s, &obj); err != nil {
			r.log.Warn("cache entry undecodable", zap.String("key", keys[i]), zap.Error(err))
			return nil
		}
		objs = append(objs, obj)
	}
	slices.SortFunc(objs, func(a, b T) int {
		return cmp.Compare(a.GetID(), b.GetID())
	})
	return objs
}

// SetObj stores obj with the configured TTL
func (r *Repository[T]) SetObj(ctx context.Context, obj *T) {
	if r.rdb == nil || obj == nil {
		return
	}
	key := r.Key((*obj).GetID())
	data, err := json.Marshal(obj)
	if err == nil {
		err = r.rdb.Set(ctx, key, data, r.ttl).Err()
	}
	if err != nil {
		r.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		// the namespace may now miss obj
		r.dropMarker(ctx)
	}
}

// SetAll stores every object and marks the namespace complete
func (r *Repository[T]) SetAll(ctx context.Context, objs []T) {
	if r.rdb == nil || len(objs) == 0 {
		return
	}
	encoded := make([][]byte, len(objs))
	for i := range objs {
		data, err := json.Marshal(&objs[i])
		if err != nil {
			r.log.Warn("cache encode failed", zap.Uint("id", objs[i].GetID()), zap.Error(err))
			return
		}
		encoded[i] = data
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// marker first: it must never outlive a member
		pipe.Set(ctx, r.marker, 1, r.ttl)
		for i := range objs {
			pipe.Set(ctx, r.Key(objs[i].GetID()), encoded[i], r.ttl)
		}
		return nil
	})
	if err != nil {
		r.log.Warn("cache set all failed", zap.Error(err))
		r.dropMarker(ctx)
	}
}

// DeleteObj removes the entry of an object that no longer exists in the
// store. The namespace stays complete.
func (r *Repository[T]) DeleteObj(ctx context.Context, obj *T) {
	if r.rdb == nil || obj == nil {
		return
	}
	key := r.Key((*obj).GetID())
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		r.log.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
		r.dropMarker(ctx)
	}
}

// Invalidate removes the entry for id while the object still exists in
// the store, so the namespace can no longer be served as complete
func (r *Repository[T]) Invalidate(ctx context.Context, id any) {
	if r.rdb == nil {
		return
	}
	key := r.Key(id)
	if err := r.rdb.Del(ctx, r.marker, key).Err(); err != nil {
		r.log.Warn("cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

// Flush clears the whole cache database, every namespace included
func (r *Repository[T]) Flush(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.FlushDB(ctx).Err(); err != nil {
		r.log.Warn("cache flush failed", zap.Error(err))
	}
}

func (r *Repository[T]) dropMarker(ctx context.Context) {
	if err := r.rdb.Del(ctx, r.marker).Err(); err != nil {
		r.log.Warn("cache marker drop failed", zap.Error(err))
	}
}
