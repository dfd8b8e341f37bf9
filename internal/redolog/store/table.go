package store

import "sync"

// Table is an in-memory key/value apply target. Applying the same command
// twice leaves the table in the same state, so re-replaying a log after a
// failed checkpoint is safe.
type Table struct {
	mu sync.RWMutex
	m  map[string]string
}

// New creates an empty table.
func New() *Table {
	return &Table{
		m: make(map[string]string),
	}
}

// Apply decodes one logged payload and applies it to the table.
func (t *Table) Apply(payload []byte) error {
	cmd, err := ParseCommand(payload)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch cmd.Kind {
	case CommandSet:
		t.m[cmd.Key] = cmd.Value
	case CommandDelete:
		delete(t.m, cmd.Key)
	}
	return nil
}

// Get returns the value for key if present.
func (t *Table) Get(key string) (value string, ok bool, err error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	value, ok = t.m[key]
	return value, ok, nil
}

// Len returns the number of live keys.
func (t *Table) Len() (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.m), nil
}

// Snapshot returns a copy of the current state (for tests/debugging).
func (t *Table) Snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]string, len(t.m))
	for k, v := range t.m {
		out[k] = v
	}
	return out
}

// Close satisfies the apply-target lifecycle; the table holds no resources.
func (t *Table) Close() error {
	return nil
}
