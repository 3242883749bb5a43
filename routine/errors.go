package routine

import "fmt"

// ErrPanicRecovered is wrapped by every error built from a recovered panic
var ErrPanicRecovered = fmt.Errorf("routine: panic recovered")

// ErrPanic returns an error for the panic recovered in the named goroutine
func ErrPanic(name string, recovered any) error {
	return fmt.Errorf("%w in %s: %v", ErrPanicRecovered, name, recovered)
}
