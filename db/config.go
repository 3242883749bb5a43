package db

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	// DriverMySQL is the production driver
	DriverMySQL = "mysql"
	// DriverSQLite is used for local runs and tests
	DriverSQLite = "sqlite"
)

// Config is the configuration for the database
// It is used to configure the database connection pool and logging
type Config struct {
	// Driver is either "mysql" or "sqlite"
	// default: "mysql"
	Driver string `mapstructure:"driver" yaml:"driver"`
	// Path is the sqlite database file, ":memory:" for an in-memory store
	// Only used by the sqlite driver
	Path string `mapstructure:"path" yaml:"path"`
	// Host is the host of the database
	Host string `mapstructure:"host" yaml:"host"`
	// Port is the port of the database
	// default: 3306
	Port int `mapstructure:"port" yaml:"port"`
	// User is the user of the database
	User string `mapstructure:"user" yaml:"user"`
	// Password is the password of the database
	Password string `mapstructure:"password" yaml:"password"`
	// Database is the name of the database
	Database string `mapstructure:"database" yaml:"database"`
	// MaxOpenConns is the maximum number of open connections to the database
	// default: 25
	MaxOpenConns int `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	// MaxIdleConns is the maximum number of idle connections to the database
	// default: 10
	MaxIdleConns int `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	// ConnMaxLifetime is the maximum lifetime of a connection
	// default: 1800 * time.Second
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	// ConnMaxIdleTime is the maximum idle time of a connection
	// default: 600 * time.Second
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	// LogLevel is the log level of the database
	// default: "warn"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// SlowThreshold is the threshold for slow queries
	// default: 1 * time.Second
	SlowThreshold time.Duration `mapstructure:"slow_threshold" yaml:"slow_threshold"`
	// default: "utf8mb4"
	Charset string `mapstructure:"charset" yaml:"charset"`
	// default: "Local"
	Loc string `mapstructure:"loc" yaml:"loc"`
}

// DSN returns the driver specific data source name
func (c *Config) DSN() string {
	if c.Driver == DriverSQLite {
		// foreign keys are off by default in sqlite, cascades depend on them
		return c.Path + "?_foreign_keys=on"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
		c.Charset, c.Loc,
	)
}

// DefaultConfig returns the default configuration for the database
func DefaultConfig() *Config {
	return &Config{
		Driver:          DriverMySQL,
		Port:            3306,
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1800 * time.Second,
		ConnMaxIdleTime: 600 * time.Second,
		LogLevel:        "warn",
		SlowThreshold:   1 * time.Second,
		Charset:         "utf8mb4",
		Loc:             "Local",
	}
}

// Validate validates the configuration for the database
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverMySQL:
		if c.Host == "" {
			return ErrInvalidConfig("host is required")
		}
		if c.Port <= 0 {
			return ErrInvalidConfig("port is required")
		}
		if c.User == "" {
			return ErrInvalidConfig("user is required")
		}
		if c.Password == "" {
			return ErrInvalidConfig("password is required")
		}
		if c.Database == "" {
			return ErrInvalidConfig("database is required")
		}
	case DriverSQLite:
		if c.Path == "" {
			return ErrInvalidConfig("path is required for sqlite")
		}
	default:
		return ErrInvalidConfig(fmt.Sprintf("driver %q must be one of: %s, %s", c.Driver, DriverMySQL, DriverSQLite))
	}

	validLogLevels := []string{"silent", "error", "warn", "info"}
	if !slices.ContainsFunc(validLogLevels, func(level string) bool {
		return strings.EqualFold(c.LogLevel, level)
	}) {
		return ErrInvalidConfig(fmt.Sprintf("log_level %q must be one of: %s", c.LogLevel, strings.Join(validLogLevels, ", ")))
	}
	return nil
}

// MergeDefaults merges the default configuration with the given configuration
// It returns the merged configuration
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Driver == "" {
		c.Driver = defaults.Driver
	}
	if c.Port == 0 {
		c.Port = defaults.Port
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = defaults.MaxOpenConns
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaults.MaxIdleConns
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = defaults.ConnMaxLifetime
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = defaults.ConnMaxIdleTime
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.SlowThreshold == 0 {
		c.SlowThreshold = defaults.SlowThreshold
	}
	if c.Charset == "" {
		c.Charset = defaults.Charset
	}
	if c.Loc == "" {
		c.Loc = defaults.Loc
	}
	return c
}
