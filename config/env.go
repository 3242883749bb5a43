package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every variable read by Load
const EnvPrefix = "MENUHUB_"

type binding struct {
	key string
	set func(string) error
}

func str(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func integer(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func boolean(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func duration(dst *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}

func list(dst *[]string) func(string) error {
	return func(v string) error {
		var out []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*dst = out
		return nil
	}
}

func applyEnv(cfg *Config) error {
	cfg.MergeDefaults()
	bindings := []binding{
		{"LOG_LEVEL", str(&cfg.Logger.Level)},
		{"LOG_ENCODING", str(&cfg.Logger.Encoding)},

		{"DB_DRIVER", str(&cfg.DB.Driver)},
		{"DB_PATH", str(&cfg.DB.Path)},
		{"DB_HOST", str(&cfg.DB.Host)},
		{"DB_PORT", integer(&cfg.DB.Port)},
		{"DB_USER", str(&cfg.DB.User)},
		{"DB_PASSWORD", str(&cfg.DB.Password)},
		{"DB_NAME", str(&cfg.DB.Database)},
		{"DB_LOG_LEVEL", str(&cfg.DB.LogLevel)},

		{"REDIS_ENABLED", boolean(&cfg.Redis.Enabled)},
		{"REDIS_ADDR", str(&cfg.Redis.Addr)},
		{"REDIS_USERNAME", str(&cfg.Redis.Username)},
		{"REDIS_PASSWORD", str(&cfg.Redis.Password)},
		{"REDIS_DB", integer(&cfg.Redis.DB)},

		{"CACHE_TTL", duration(&cfg.Cache.TTL)},

		{"HTTP_ADDR", str(&cfg.HTTP.Addr)},
		{"HTTP_ALLOWED_ORIGINS", list(&cfg.HTTP.AllowedOrigins)},

		{"SYNC_ENABLED", boolean(&cfg.Sync.Enabled)},
		{"SYNC_PATH", str(&cfg.Sync.Path)},
		{"SYNC_SHEET", str(&cfg.Sync.Sheet)},
		{"SYNC_INTERVAL", duration(&cfg.Sync.Interval)},
		{"SYNC_SPEC", str(&cfg.Sync.Spec)},
		{"SYNC_TIMEOUT", duration(&cfg.Sync.Timeout)},
	}
	for _, b := range bindings {
		key := EnvPrefix + b.key
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		if err := b.set(v); err != nil {
			return ErrInvalidEnv(key, err)
		}
	}
	return nil
}
