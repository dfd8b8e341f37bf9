package testutil

import (
	"errors"

	"github.com/julianstephens/redolog/internal/logger"
	"github.com/julianstephens/redolog/internal/redolog/recovery"
	"github.com/julianstephens/redolog/internal/redolog/store"
	"github.com/julianstephens/redolog/internal/redolog/wal"
)

// TestingT is a minimal interface for test assertions.
type TestingT interface {
	Fatalf(format string, args ...interface{})
}

// RecoveryHarness writes a raw log image, opens it as a log, replays it into
// an in-memory table, and exposes assertions over the outcome.
type RecoveryHarness struct {
	path   string
	table  *store.Table
	log    *wal.Log
	result *recovery.ReplayResult
	err    error
	lg     logger.Logger
}

// NewHarness creates a harness for a log at the given path.
func NewHarness(path string) *RecoveryHarness {
	return &RecoveryHarness{
		path:  path,
		table: store.New(),
		lg:    logger.NoOpLogger{},
	}
}

// WithLogger sets a custom logger for the harness.
func (h *RecoveryHarness) WithLogger(lg logger.Logger) *RecoveryHarness {
	h.lg = lg
	return h
}

// WriteImage writes the builder's image to the harness path.
func (h *RecoveryHarness) WriteImage(b *LogBuilder) error {
	return b.WriteFile(h.path)
}

// Replay opens the log and replays it into the harness table. The log stays
// open for follow-up operations; call Close when done.
func (h *RecoveryHarness) Replay() error {
	if h.log == nil {
		h.log, h.err = wal.Open(h.path, h.lg)
		if h.err != nil {
			return h.err
		}
	}

	h.result, h.err = recovery.Replay(h.log, h.table, h.lg)
	return h.err
}

// Close releases the harness log handle.
func (h *RecoveryHarness) Close() error {
	if h.log == nil {
		return nil
	}
	return h.log.Close()
}

// Log returns the open log, or nil before Replay.
func (h *RecoveryHarness) Log() *wal.Log {
	return h.log
}

// Table returns the underlying table for advanced assertions.
func (h *RecoveryHarness) Table() *store.Table {
	return h.table
}

// Result returns the underlying replay result.
func (h *RecoveryHarness) Result() *recovery.ReplayResult {
	return h.result
}

// AssertReplaySuccess asserts that replay succeeded without an error.
func (h *RecoveryHarness) AssertReplaySuccess(t TestingT) {
	if h.err != nil {
		t.Fatalf("expected replay to succeed, but got error: %v", h.err)
	}
}

// AssertReplayError asserts that replay failed with the given sentinel.
func (h *RecoveryHarness) AssertReplayError(t TestingT, sentinel error) {
	if h.err == nil {
		t.Fatalf("expected replay to return an error, but it succeeded")
	}
	if sentinel != nil && !errors.Is(h.err, sentinel) {
		t.Fatalf("expected replay error %v, got %v", sentinel, h.err)
	}
}

// AssertEntries asserts the number of replayed entries.
func (h *RecoveryHarness) AssertEntries(t TestingT, expected int) {
	if h.result == nil {
		t.Fatalf("no replay result available; call Replay first")
	}
	if h.result.Entries != expected {
		t.Fatalf("expected %d replayed entries, got %d", expected, h.result.Entries)
	}
}

// AssertTailStatus asserts how the replay scan ended.
func (h *RecoveryHarness) AssertTailStatus(t TestingT, expected recovery.TailStatus) {
	if h.result == nil {
		t.Fatalf("no replay result available; call Replay first")
	}
	if h.result.TailStatus != expected {
		t.Fatalf("expected TailStatus=%v, got %v", expected, h.result.TailStatus)
	}
}

// AssertEndOffset asserts the offset just past the last replayed entry.
func (h *RecoveryHarness) AssertEndOffset(t TestingT, expected int64) {
	if h.result == nil {
		t.Fatalf("no replay result available; call Replay first")
	}
	if h.result.EndOffset != expected {
		t.Fatalf("expected EndOffset=%d, got %d", expected, h.result.EndOffset)
	}
}

// AssertStoreEntry asserts that a key in the table has the expected value.
func (h *RecoveryHarness) AssertStoreEntry(t TestingT, key, expectedValue string) {
	value, ok, _ := h.table.Get(key)
	if !ok {
		t.Fatalf("expected key %q with value %q, but key was not found", key, expectedValue)
	}
	if value != expectedValue {
		t.Fatalf("expected key %q with value %q, but got %q", key, expectedValue, value)
	}
}

// AssertStoreMissing asserts that a key is absent from the table.
func (h *RecoveryHarness) AssertStoreMissing(t TestingT, key string) {
	value, ok, _ := h.table.Get(key)
	if ok {
		t.Fatalf("expected key %q to be absent, but got value %q", key, value)
	}
}
