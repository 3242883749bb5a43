package importer

import "time"

// Config is the configuration for the catalog import job
type Config struct {
	// Enabled schedules the job; the manual trigger works either way
	// default: false
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Path of the xlsx file
	// default: "admin/Menu.xlsx"
	Path string `mapstructure:"path" yaml:"path"`
	// Sheet to read, the first sheet when empty
	Sheet string `mapstructure:"sheet" yaml:"sheet"`
	// Interval is how recent the file modification must be for a
	// scheduled run to import it
	// default: 15s
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	// Spec is the cron schedule, six fields with seconds or a descriptor
	// default: "@every 15s"
	Spec string `mapstructure:"spec" yaml:"spec"`
	// Timeout bounds each task of a scheduled run
	// default: 5m
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// DefaultConfig returns the default configuration for the import job
func DefaultConfig() *Config {
	return &Config{
		Path:     "admin/Menu.xlsx",
		Interval: 15 * time.Second,
		Spec:     "@every 15s",
		Timeout:  5 * time.Minute,
	}
}

// MergeDefaults fills empty fields with their default values
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Path == "" {
		c.Path = defaults.Path
	}
	if c.Interval == 0 {
		c.Interval = defaults.Interval
	}
	if c.Spec == "" {
		c.Spec = defaults.Spec
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	return c
}

// Validate validates the configuration for the import job
func (c *Config) Validate() error {
	if c.Path == "" {
		return ErrInvalidConfig("path is required")
	}
	if c.Interval <= 0 {
		return ErrInvalidConfig("interval must be positive")
	}
	if c.Timeout < 0 {
		return ErrInvalidConfig("timeout must not be negative")
	}
	if c.Enabled && c.Spec == "" {
		return ErrInvalidConfig("spec is required when enabled")
	}
	return nil
}
