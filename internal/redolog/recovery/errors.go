package recovery

import (
	"errors"
	"fmt"
)

var (
	ErrScanFailed  = errors.New("recovery: scan failed")
	ErrApplyFailed = errors.New("recovery: apply failed")
)

type ReplayErrorKind uint8

const (
	ReplayScan ReplayErrorKind = iota
	ReplayApply
)

func (k ReplayErrorKind) String() string {
	switch k {
	case ReplayScan:
		return "scan"
	case ReplayApply:
		return "apply"
	default:
		return "unknown"
	}
}

// ReplayError wraps replay failures with context.
// It preserves a stable sentinel in Err so callers can errors.Is against it.
type ReplayError struct {
	Kind ReplayErrorKind
	// Entry is the index of the entry being applied when the failure occurred
	// (meaningful for ReplayApply only).
	Entry int
	Err   error
	Cause error
}

func (e *ReplayError) Error() string {
	if e.Kind == ReplayApply {
		return fmt.Sprintf("%s entry=%d: %s", e.Kind.String(), e.Entry, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Err.Error())
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}

// CauseErr returns the underlying cause (not used by errors.Is).
func (e *ReplayError) CauseErr() error { return e.Cause }
