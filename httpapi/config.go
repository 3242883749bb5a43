package httpapi

import "time"

// Config is the configuration for the HTTP server
type Config struct {
	// default: ":8000"
	Addr string `mapstructure:"addr" yaml:"addr"`
	// default: 10s
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	// default: 30s
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// ShutdownTimeout bounds the graceful shutdown
	// default: 10s
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// AllowedOrigins for CORS
	// default: []string{"*"}
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// DefaultConfig returns the default configuration for the HTTP server
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8000",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"*"},
	}
}

// MergeDefaults fills empty fields with their default values
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Addr == "" {
		c.Addr = defaults.Addr
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaults.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = defaults.AllowedOrigins
	}
	return c
}

// Validate validates the configuration for the HTTP server
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrInvalidConfig("addr is required")
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return ErrInvalidConfig("timeouts must not be negative")
	}
	return nil
}
