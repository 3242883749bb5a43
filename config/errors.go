package config

import "fmt"

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("config: invalid config: %s", msg)
}

// ErrRead a configuration source could not be read
func ErrRead(source string, err error) error {
	return fmt.Errorf("config: read %s: %w", source, err)
}

// ErrInvalidEnv an environment variable could not be parsed
func ErrInvalidEnv(key string, err error) error {
	return fmt.Errorf("config: invalid %s: %w", key, err)
}
