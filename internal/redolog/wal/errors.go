package wal

import (
	"errors"
	"fmt"
)

var (
	// I/O layer failures
	ErrOpenFailed     = errors.New("wal: open failed")
	ErrAppendFailed   = errors.New("wal: append failed")
	ErrShortWrite     = errors.New("wal: short write")
	ErrReadFailed     = errors.New("wal: read failed")
	ErrTruncateFailed = errors.New("wal: truncate failed")
	ErrCloseFailed    = errors.New("wal: close failed")

	// Caller errors
	ErrPayloadTooLarge = errors.New("wal: payload too large")
	ErrLogClosed       = errors.New("wal: log closed")
)

// LogError wraps log-level failures with context.
// It preserves a stable sentinel in Err so callers can errors.Is against it.
type LogError struct {
	Err error // one of the sentinel errors above

	Path   string
	Offset int64 // write cursor at the time of the failure

	// Op is a short label for where the error occurred:
	// "open", "append", "fsync", "scan", "truncate", "close".
	Op string

	Cause error
}

func (e *LogError) Error() string {
	// Keep it short; callers can inspect fields if they need more.
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *LogError) Unwrap() error {
	return e.Err
}

// CauseErr returns the underlying cause (not used by errors.Is).
func (e *LogError) CauseErr() error { return e.Cause }

func wrapLogErr(op string, sentinel error, path string, offset int64, cause error) error {
	return &LogError{
		Err:    sentinel,
		Path:   path,
		Offset: offset,
		Op:     op,
		Cause:  cause,
	}
}
