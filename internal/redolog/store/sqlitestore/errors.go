package sqlitestore

import (
	"errors"
	"fmt"
)

var (
	ErrOpenFailed    = errors.New("sqlitestore: open failed")
	ErrMigrateFailed = errors.New("sqlitestore: migrate failed")
	ErrApplyFailed   = errors.New("sqlitestore: apply failed")
	ErrQueryFailed   = errors.New("sqlitestore: query failed")
	ErrCloseFailed   = errors.New("sqlitestore: close failed")
)

// StoreError wraps sqlite store failures with context.
type StoreError struct {
	Err   error // one of the sentinel errors above
	Path  string
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// CauseErr returns the underlying cause (not used by errors.Is).
func (e *StoreError) CauseErr() error { return e.Cause }

func wrapStoreErr(op string, sentinel error, path string, cause error) error {
	return &StoreError{
		Err:   sentinel,
		Path:  path,
		Op:    op,
		Cause: cause,
	}
}
