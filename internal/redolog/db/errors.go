package db

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPath      = errors.New("db: invalid path")
	ErrInvalidKey       = errors.New("db: invalid key")
	ErrInitFailed       = errors.New("db: initialization failed")
	ErrManifestFailed   = errors.New("db: manifest failed")
	ErrStoreOpenFailed  = errors.New("db: store open failed")
	ErrWALOpenFailed    = errors.New("db: wal open failed")
	ErrReplayFailed     = errors.New("db: replay failed")
	ErrWriteFailed      = errors.New("db: write failed")
	ErrReadFailed       = errors.New("db: read failed")
	ErrCheckpointFailed = errors.New("db: checkpoint failed")
	ErrClosed           = errors.New("db: database closed")
	ErrCloseFailed      = errors.New("db: close failed")
)

// DBError wraps database-level failures with context.
// It preserves a stable sentinel in Err so callers can errors.Is against it.
type DBError struct {
	Err error // one of the sentinel errors above

	Path string

	// Op is a short label for where the error occurred:
	// "open", "set", "del", "checkpoint", "stats", "close", etc.
	Op string

	Cause error
}

func (e *DBError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *DBError) Unwrap() error {
	return e.Err
}

// CauseErr returns the underlying cause (not used by errors.Is).
func (e *DBError) CauseErr() error { return e.Cause }

func wrapDBErr(op string, sentinel error, path string, cause error) error {
	return &DBError{
		Err:   sentinel,
		Path:  path,
		Op:    op,
		Cause: cause,
	}
}
