// Package cache holds the key-value side of the catalog: a redis client and
// a generic repository that stores serialized entities under one namespace
// per entity type.
//
// The cache is an accelerator. Every failure is logged and treated as a
// miss, and a nil client turns the whole package into no-ops.
package cache

import (
	"context"

	"github.com/dailyyoga/menuhub/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is the subset of the go-redis client the catalog depends on
type Redis interface {
	redis.Cmdable
	// Unwrap returns the underlying client
	Unwrap() *redis.Client
	PoolStats() *redis.PoolStats
	Close() error
}

type redisClient struct {
	*redis.Client
}

func (c *redisClient) Unwrap() *redis.Client {
	return c.Client
}

// NewRedis connects to redis and verifies the connection with PING
func NewRedis(log logger.Logger, cfg *RedisConfig) (Redis, error) {
	if cfg == nil {
		cfg = DefaultRedisConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(cfg.Options())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, ErrConnection(err)
	}

	log.Info("redis connection established",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)
	return &redisClient{Client: client}, nil
}
