package e2e_test

import (
	"path/filepath"
	"testing"

	tst "github.com/julianstephens/go-utils/tests"

	"github.com/julianstephens/redolog/internal/redolog/recovery"
	"github.com/julianstephens/redolog/internal/redolog/store"
	"github.com/julianstephens/redolog/internal/redolog/wal/frame"
	"github.com/julianstephens/redolog/internal/testutil"
)

func newHarness(t *testing.T) *testutil.RecoveryHarness {
	t.Helper()
	h := testutil.NewHarness(filepath.Join(t.TempDir(), "redo.wal"))
	t.Cleanup(func() { _ = h.Close() })
	return h
}

// TestRecoveryCleanLog replays a log that ends on an entry boundary
func TestRecoveryCleanLog(t *testing.T) {
	h := newHarness(t)
	img := testutil.NewLogBuilder().
		Entry(store.Set("key1", "value1").Encode()).
		Entry(store.Set("key2", "value2").Encode()).
		Entry(store.Delete("key1").Encode())
	tst.RequireNoError(t, h.WriteImage(img))

	tst.RequireNoError(t, h.Replay())
	h.AssertReplaySuccess(t)
	h.AssertEntries(t, 3)
	h.AssertTailStatus(t, recovery.TailStatusValid)
	h.AssertEndOffset(t, img.Len())
	h.AssertStoreMissing(t, "key1")
	h.AssertStoreEntry(t, "key2", "value2")
}

// TestRecoveryEmptyLog replays a log file with no content
func TestRecoveryEmptyLog(t *testing.T) {
	h := newHarness(t)
	tst.RequireNoError(t, h.WriteImage(testutil.NewLogBuilder()))

	tst.RequireNoError(t, h.Replay())
	h.AssertEntries(t, 0)
	h.AssertTailStatus(t, recovery.TailStatusValid)
	h.AssertEndOffset(t, 0)
}

// TestRecoveryTornHeader replays a log whose last append died inside the header
func TestRecoveryTornHeader(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		h := newHarness(t)
		img := testutil.NewLogBuilder().
			Entry(store.Set("key1", "value1").Encode()).
			TornHeader(n)
		tst.RequireNoError(t, h.WriteImage(img))

		tst.RequireNoError(t, h.Replay())
		h.AssertEntries(t, 1)
		h.AssertTailStatus(t, recovery.TailStatusTruncated)
		h.AssertEndOffset(t, frame.EncodedSize(17))
		h.AssertStoreEntry(t, "key1", "value1")
	}
}

// TestRecoveryTornPayload replays a log whose last append died inside the payload
func TestRecoveryTornPayload(t *testing.T) {
	h := newHarness(t)
	img := testutil.NewLogBuilder().
		Entry(store.Set("key1", "value1").Encode()).
		Entry(store.Set("key2", "value2").Encode()).
		TornEntry(17, []byte("SET key3 ="))
	tst.RequireNoError(t, h.WriteImage(img))

	tst.RequireNoError(t, h.Replay())
	h.AssertEntries(t, 2)
	h.AssertTailStatus(t, recovery.TailStatusTruncated)
	h.AssertStoreEntry(t, "key1", "value1")
	h.AssertStoreEntry(t, "key2", "value2")
	h.AssertStoreMissing(t, "key3")
}

// TestRecoveryDanglingHeader replays a log holding only a complete header
func TestRecoveryDanglingHeader(t *testing.T) {
	h := newHarness(t)
	tst.RequireNoError(t, h.WriteImage(testutil.NewLogBuilder().TornEntry(8, nil)))

	tst.RequireNoError(t, h.Replay())
	h.AssertEntries(t, 0)
	h.AssertTailStatus(t, recovery.TailStatusTruncated)
	h.AssertEndOffset(t, 0)
}

// TestRecoveryAppendAfterTornTail verifies the write cursor lands at true EOF
func TestRecoveryAppendAfterTornTail(t *testing.T) {
	h := newHarness(t)
	img := testutil.NewLogBuilder().
		Entry(store.Set("key1", "value1").Encode()).
		TornHeader(2)
	tst.RequireNoError(t, h.WriteImage(img))

	tst.RequireNoError(t, h.Replay())
	h.AssertTailStatus(t, recovery.TailStatusTruncated)

	// The next append goes past the torn fragment, not over it.
	off, err := h.Log().Append(store.Set("key2", "value2").Encode())
	tst.RequireNoError(t, err)
	tst.AssertEqual(t, off, img.Len(), "append resumes at true end-of-file")
}

// TestRecoveryIsIdempotent replays the same log twice into the same store
func TestRecoveryIsIdempotent(t *testing.T) {
	h := newHarness(t)
	img := testutil.NewLogBuilder().
		Entry(store.Set("key1", "value1").Encode()).
		Entry(store.Set("key1", "value2").Encode()).
		Entry(store.Delete("missing").Encode())
	tst.RequireNoError(t, h.WriteImage(img))

	// A crash between apply and truncate means the same entries are replayed
	// again on the next open; the store must converge, not diverge.
	tst.RequireNoError(t, h.Replay())
	first := h.Table().Snapshot()
	tst.RequireNoError(t, h.Replay())
	tst.RequireDeepEqual(t, h.Table().Snapshot(), first)
	h.AssertStoreEntry(t, "key1", "value2")
}

// TestRecoveryMalformedEntryFailsReplay verifies a well-framed but unparsable
// entry aborts replay with an apply error
func TestRecoveryMalformedEntryFailsReplay(t *testing.T) {
	h := newHarness(t)
	img := testutil.NewLogBuilder().
		Entry(store.Set("key1", "value1").Encode()).
		Entry([]byte("PUT key2 = value2"))
	tst.RequireNoError(t, h.WriteImage(img))

	err := h.Replay()
	tst.AssertTrue(t, err != nil, "expected replay to fail")
	h.AssertReplayError(t, recovery.ErrApplyFailed)
	h.AssertStoreEntry(t, "key1", "value1")
}
