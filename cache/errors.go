package cache

import "fmt"

// ErrInvalidConfig returns an error for an invalid redis configuration
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("cache: invalid config: %s", msg)
}

// ErrConnection wraps a failure to reach redis
func ErrConnection(err error) error {
	return fmt.Errorf("cache: connection failed: %w", err)
}
