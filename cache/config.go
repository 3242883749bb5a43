package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds configuration for the redis client
type RedisConfig struct {
	// Enabled turns the cache on; with the cache off every cache operation is a no-op
	// default: true when loaded through config.Load
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Addr is host:port of the redis server (required)
	Addr string `mapstructure:"addr" yaml:"addr"`
	// Username for ACL authentication (redis >= 6)
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	// default: 10
	PoolSize     int `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
	// MaxRetries of a failed command, 0 disables retries
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
	// default: 5 * time.Second
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	// default: 3 * time.Second
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	// default: 3 * time.Second
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// DefaultRedisConfig returns the configuration used when none is provided
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:      true,
		Addr:         "localhost:6379",
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// MergeDefaults fills zero values with defaults, Addr excluded
func (c *RedisConfig) MergeDefaults() *RedisConfig {
	defaults := DefaultRedisConfig()
	if c.PoolSize == 0 {
		c.PoolSize = defaults.PoolSize
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = defaults.DialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaults.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	return c
}

// Validate validates the configuration
func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return ErrInvalidConfig("addr is required")
	}
	if c.DB < 0 {
		return ErrInvalidConfig("db must be >= 0")
	}
	if c.PoolSize < 0 {
		return ErrInvalidConfig("pool_size must be >= 0")
	}
	if c.MinIdleConns < 0 {
		return ErrInvalidConfig("min_idle_conns must be >= 0")
	}
	if c.MaxRetries < 0 {
		return ErrInvalidConfig("max_retries must be >= 0")
	}
	if c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return ErrInvalidConfig("timeouts must be >= 0")
	}
	return nil
}

// Options converts the configuration to go-redis options
func (c *RedisConfig) Options() *redis.Options {
	retries := c.MaxRetries
	if retries == 0 {
		// go-redis treats 0 as its default of 3
		retries = -1
	}
	return &redis.Options{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		MaxRetries:   retries,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

// DefaultTTL is how long a cached entity lives
const DefaultTTL = time.Hour
