// Package config assembles the configuration of the menud process.
//
// Values are layered: package defaults, then an optional YAML file, then
// the environment. A .env file in the working directory is loaded into the
// environment first; variables already set win over it. Environment
// variables use the MENUHUB_ prefix, e.g. MENUHUB_DB_HOST or
// MENUHUB_CACHE_TTL=30m.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dailyyoga/menuhub/cache"
	"github.com/dailyyoga/menuhub/db"
	"github.com/dailyyoga/menuhub/httpapi"
	"github.com/dailyyoga/menuhub/importer"
	"github.com/dailyyoga/menuhub/logger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CacheConfig tunes the catalog cache
type CacheConfig struct {
	// TTL of every cached entity
	// default: 1h
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// Config is the whole process configuration
type Config struct {
	Logger *logger.Config     `mapstructure:"logger" yaml:"logger"`
	DB     *db.Config         `mapstructure:"db" yaml:"db"`
	Redis  *cache.RedisConfig `mapstructure:"redis" yaml:"redis"`
	Cache  CacheConfig        `mapstructure:"cache" yaml:"cache"`
	HTTP   *httpapi.Config    `mapstructure:"http" yaml:"http"`
	Sync   *importer.Config   `mapstructure:"sync" yaml:"sync"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Logger: logger.DefaultConfig(),
		DB:     db.DefaultConfig(),
		Redis:  cache.DefaultRedisConfig(),
		Cache:  CacheConfig{TTL: cache.DefaultTTL},
		HTTP:   httpapi.DefaultConfig(),
		Sync:   importer.DefaultConfig(),
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ErrRead(path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, ErrRead(path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, ErrRead(".env", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeDefaults fills every unset section and field
func (c *Config) MergeDefaults() *Config {
	defaults := Default()
	if c.Logger == nil {
		c.Logger = defaults.Logger
	}
	if c.DB == nil {
		c.DB = defaults.DB
	}
	if c.Redis == nil {
		c.Redis = defaults.Redis
	}
	if c.HTTP == nil {
		c.HTTP = defaults.HTTP
	}
	if c.Sync == nil {
		c.Sync = defaults.Sync
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = defaults.Cache.TTL
	}
	c.Logger.MergeDefaults()
	c.DB.MergeDefaults()
	c.Redis.MergeDefaults()
	c.HTTP.MergeDefaults()
	c.Sync.MergeDefaults()
	return c
}

// Validate validates every section
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.DB.Validate(); err != nil {
		return err
	}
	if c.Redis.Enabled {
		if err := c.Redis.Validate(); err != nil {
			return err
		}
	}
	if c.Cache.TTL < time.Second {
		return ErrInvalidConfig("cache.ttl must be at least 1s")
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	return c.Sync.Validate()
}
