package recovery

import (
	"github.com/julianstephens/go-utils/generic"

	"github.com/julianstephens/redolog/internal/logger"
	"github.com/julianstephens/redolog/internal/redolog/wal"
)

// ApplyTarget is the primary data store the log protects.
//
// Apply must tolerate re-application of a payload it has already seen:
// a crash between applying and truncating means replay cannot distinguish
// "applied but not yet truncated" from "never applied".
type ApplyTarget interface {
	Apply(payload []byte) error
}

// Scanner produces one full scan of a log. *wal.Log satisfies it.
type Scanner interface {
	Scan() (*wal.ScanResult, error)
}

type TailStatus int

const (
	// TailStatusValid indicates the scan ended at a clean entry boundary.
	TailStatusValid TailStatus = iota
	// TailStatusTruncated indicates the scan stopped at a torn trailing
	// fragment left by an interrupted append. This is recoverable, not an
	// error: every entry before the tear was replayed.
	TailStatusTruncated
)

func (ts TailStatus) String() string {
	switch ts {
	case TailStatusValid:
		return "valid"
	case TailStatusTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

type ReplayResult struct {
	// Entries is the number of payloads applied, in append order.
	Entries int
	// EndOffset is the byte offset just past the last applied entry.
	EndOffset  int64
	TailStatus TailStatus
}

// Replay scans the log from the beginning and applies every recovered payload
// to the target in append order. It returns a ReplayResult describing how far
// replay got and how the scan ended.
//
// Once Replay succeeds the caller may checkpoint the log, provided the target
// has durably persisted the applied state.
func Replay(src Scanner, target ApplyTarget, lg logger.Logger) (*ReplayResult, error) {
	if lg == nil {
		lg = logger.NoOpLogger{}
	}

	lg.Info("starting replay")

	scan, err := src.Scan()
	if err != nil {
		lg.Error("replay scan failed", err)
		return nil, &ReplayError{
			Kind:  ReplayScan,
			Err:   ErrScanFailed,
			Cause: err,
		}
	}

	result := &ReplayResult{
		EndOffset:  scan.EndOffset,
		TailStatus: generic.If(scan.Truncated, TailStatusTruncated, TailStatusValid),
	}

	for i, payload := range scan.Payloads {
		if err := target.Apply(payload); err != nil {
			lg.Error("apply failed", err, "entry", i)
			return result, &ReplayError{
				Kind:  ReplayApply,
				Entry: i,
				Err:   ErrApplyFailed,
				Cause: err,
			}
		}
		result.Entries++
	}

	if scan.Truncated {
		lg.Warn("replay stopped at torn tail", "entries", result.Entries, "end_offset", result.EndOffset)
	}

	lg.Info("replay complete",
		"entries", result.Entries,
		"end_offset", result.EndOffset,
		"tail_status", result.TailStatus.String(),
	)
	return result, nil
}
