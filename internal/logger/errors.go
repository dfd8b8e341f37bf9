package logger

import (
	"errors"
	"fmt"
)

var (
	ErrLogCreate = errors.New("logger: create error")
	ErrLogClose  = errors.New("logger: close error")
)

type LoggerError struct {
	Op    string // operation being performed, e.g., "create", "close"
	Err   error  // stable sentinel
	Cause error  // underlying error, if any
	Path  string // optional path related to the error
}

func (e *LoggerError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error on %s: %s", e.Op, e.Path, e.Err.Error())
	}
	return fmt.Sprintf("%s error: %s", e.Op, e.Err.Error())
}

func (e *LoggerError) Unwrap() error {
	return e.Err
}

func wrapLoggerErr(op string, err, cause error, path string) error {
	return &LoggerError{
		Op:    op,
		Err:   err,
		Cause: cause,
		Path:  path,
	}
}
