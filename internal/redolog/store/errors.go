package store

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCommand     = errors.New("store: empty command")
	ErrUnknownCommand   = errors.New("store: unknown command")
	ErrMalformedCommand = errors.New("store: malformed command")
	ErrInvalidKey       = errors.New("store: invalid key")
)

// CommandError wraps a command parse failure with the offending input.
// It preserves a stable sentinel in Err so callers can errors.Is against it.
type CommandError struct {
	Err   error
	Input string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err.Error(), e.Input)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func wrapCommandErr(sentinel error, input string) error {
	return &CommandError{
		Err:   sentinel,
		Input: input,
	}
}
