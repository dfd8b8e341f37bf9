package redolog

// OpenOptions contains configuration for opening a redolog database.
//
// The manifest owns persisted configuration (wal file name, store driver);
// options here are transient per-open overrides.
type OpenOptions struct {
	// StoreDriver overrides the manifest's apply-target driver when non-empty
	// ("sqlite" or "memory"). A memory store does not survive a restart, so
	// checkpointing against it discards history; it exists for embedding and
	// tests.
	StoreDriver string
}
