package cron

import "fmt"

var (
	// ErrNoTasks a chain was added without tasks
	ErrNoTasks = fmt.Errorf("cron: no tasks provided")

	// ErrClosed the scheduler was closed
	ErrClosed = fmt.Errorf("cron: scheduler is closed")

	// ErrSkipChain is returned by a task to end the current run quietly
	ErrSkipChain = fmt.Errorf("cron: skip chain")
)

// ErrInvalidSpec the schedule of chain could not be parsed
func ErrInvalidSpec(chain, spec string, err error) error {
	return fmt.Errorf("cron: invalid spec %q for chain %s: %w", spec, chain, err)
}

// ErrUnknownChain no chain is registered under name
func ErrUnknownChain(name string) error {
	return fmt.Errorf("cron: unknown chain %s", name)
}

// ErrDuplicateChain a chain is already registered under name
func ErrDuplicateChain(name string) error {
	return fmt.Errorf("cron: chain %s already registered", name)
}
