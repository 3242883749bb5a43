package repository

import (
	"errors"
	"fmt"
)

// Error kinds, matched with errors.Is
var (
	// ErrNotFound no row matches the requested id or filters
	ErrNotFound = errors.New("repository: not found")
	// ErrAlreadyExists a uniqueness constraint rejected the write
	ErrAlreadyExists = errors.New("repository: already exists")
	// ErrNotImplemented an entity type did not supply a required hook
	ErrNotImplemented = errors.New("repository: not implemented")
)

// Error carries a client facing message for one of the error kinds
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound returns an ErrNotFound carrying msg
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// AlreadyExists returns an ErrAlreadyExists carrying msg
func AlreadyExists(msg string) error {
	return &Error{Kind: ErrAlreadyExists, Message: msg}
}

// NotImplemented returns an ErrNotImplemented for the named hook
func NotImplemented(hook string) error {
	return &Error{Kind: ErrNotImplemented, Message: hook + "() must be implemented."}
}

// Message extracts the client facing message from err, falling back to
// err.Error() for errors that did not originate here
func Message(err error) string {
	var re *Error
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}

// ErrQuery wraps an unexpected store failure
func ErrQuery(op string, err error) error {
	return fmt.Errorf("repository: %s failed: %w", op, err)
}
