package sqlitestore_test

import (
	"errors"
	"path/filepath"
	"testing"

	tst "github.com/julianstephens/go-utils/tests"

	"github.com/julianstephens/redolog/internal/redolog/store"
	"github.com/julianstephens/redolog/internal/redolog/store/sqlitestore"
)

func openStore(t *testing.T, path string) *sqlitestore.Store {
	t.Helper()
	st, err := sqlitestore.Open(path)
	tst.RequireNoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// TestOpenCreatesDatabase tests that Open creates the sqlite file and kv table
func TestOpenCreatesDatabase(t *testing.T) {
	st := openStore(t, filepath.Join(t.TempDir(), "store.db"))

	n, err := st.Len()
	tst.RequireNoError(t, err)
	tst.AssertEqual(t, n, 0, "new store is empty")
}

// TestApplySetAndGet tests applying SET commands and reading them back
func TestApplySetAndGet(t *testing.T) {
	st := openStore(t, filepath.Join(t.TempDir(), "store.db"))

	tst.RequireNoError(t, st.Apply(store.Set("key1", "value1").Encode()))
	tst.RequireNoError(t, st.Apply(store.Set("key2", "value2").Encode()))

	v, ok, err := st.Get("key1")
	tst.RequireNoError(t, err)
	tst.AssertTrue(t, ok, "key1 should exist")
	tst.AssertEqual(t, v, "value1", "key1 value")

	_, ok, err = st.Get("missing")
	tst.RequireNoError(t, err)
	tst.AssertTrue(t, !ok, "missing key reports not found")
}

// TestApplyIsIdempotent tests that re-applying commands leaves the store unchanged
func TestApplyIsIdempotent(t *testing.T) {
	st := openStore(t, filepath.Join(t.TempDir(), "store.db"))

	payloads := [][]byte{
		store.Set("key1", "value1").Encode(),
		store.Set("key1", "value2").Encode(),
		store.Delete("missing").Encode(),
	}
	for i := 0; i < 2; i++ {
		for _, p := range payloads {
			tst.RequireNoError(t, st.Apply(p))
		}
	}

	v, ok, err := st.Get("key1")
	tst.RequireNoError(t, err)
	tst.AssertTrue(t, ok, "key1 should exist")
	tst.AssertEqual(t, v, "value2", "latest SET wins")

	n, err := st.Len()
	tst.RequireNoError(t, err)
	tst.AssertEqual(t, n, 1, "one live key")
}

// TestApplyDelete tests that DEL removes a row
func TestApplyDelete(t *testing.T) {
	st := openStore(t, filepath.Join(t.TempDir(), "store.db"))

	tst.RequireNoError(t, st.Apply(store.Set("key1", "value1").Encode()))
	tst.RequireNoError(t, st.Apply(store.Delete("key1").Encode()))

	_, ok, err := st.Get("key1")
	tst.RequireNoError(t, err)
	tst.AssertTrue(t, !ok, "key1 should be deleted")
}

// TestApplyRejectsBadPayload tests that parse errors surface unchanged
func TestApplyRejectsBadPayload(t *testing.T) {
	st := openStore(t, filepath.Join(t.TempDir(), "store.db"))

	err := st.Apply([]byte("garbage"))
	tst.AssertTrue(t, errors.Is(err, store.ErrUnknownCommand), "expected ErrUnknownCommand")
}

// TestDurabilityAcrossReopen tests that rows survive close and reopen
func TestDurabilityAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	st, err := sqlitestore.Open(path)
	tst.RequireNoError(t, err)
	tst.RequireNoError(t, st.Apply(store.Set("key1", "value1").Encode()))
	tst.RequireNoError(t, st.Close())

	reopened := openStore(t, path)
	v, ok, err := reopened.Get("key1")
	tst.RequireNoError(t, err)
	tst.AssertTrue(t, ok, "key1 survives reopen")
	tst.AssertEqual(t, v, "value1", "key1 value")
}
