package db

import (
	"errors"

	"github.com/julianstephens/go-utils/helpers"

	"github.com/julianstephens/redolog/internal/logger"
	"github.com/julianstephens/redolog/internal/redolog"
	"github.com/julianstephens/redolog/internal/redolog/manifest"
	"github.com/julianstephens/redolog/internal/redolog/recovery"
	"github.com/julianstephens/redolog/internal/redolog/store"
	"github.com/julianstephens/redolog/internal/redolog/store/sqlitestore"
	"github.com/julianstephens/redolog/internal/redolog/wal"
)

// Store is the apply target the database replays into and serves reads from.
type Store interface {
	recovery.ApplyTarget
	Get(key string) (value string, ok bool, err error)
	Len() (int, error)
	Close() error
}

// DB is a key/value database whose writes are logged before they are applied.
// Every mutation is durable in the WAL when the call returns; the store is
// rebuilt from the log on open.
type DB struct {
	dir    string
	man    *manifest.Manifest
	wal    *wal.Log
	store  Store
	logger logger.Logger
	closed bool

	lastReplay *recovery.ReplayResult
}

// Open opens or creates a database at the given directory with no logging.
func Open(dir string) (*DB, error) {
	return OpenWithOptions(dir, redolog.OpenOptions{}, logger.NoOpLogger{})
}

// OpenWithOptions opens or creates a database with the given options and
// logger. The caller owns the logger lifecycle. If logger is nil, a
// NoOpLogger is used.
func OpenWithOptions(dir string, opts redolog.OpenOptions, lg logger.Logger) (*DB, error) {
	if dir == "" {
		return nil, wrapDBErr("open", ErrInvalidPath, dir, nil)
	}

	if lg == nil {
		lg = logger.NoOpLogger{}
	}

	lg.Info("opening database", "dir", dir)

	db := &DB{
		dir:    dir,
		logger: lg,
	}

	if err := db.initialize(opts); err != nil {
		lg.Error("failed to initialize database", err, "dir", dir)
		return nil, err
	}

	lg.Info("database opened successfully",
		"dir", dir,
		"replayed", db.lastReplay.Entries,
		"tail_status", db.lastReplay.TailStatus.String(),
	)
	return db, nil
}

// Set logs and applies a SET command. The entry is durable when Set returns.
func (db *DB) Set(key, value string) error {
	return db.apply(store.Set(key, value))
}

// Delete logs and applies a DEL command. The entry is durable when Delete returns.
func (db *DB) Delete(key string) error {
	return db.apply(store.Delete(key))
}

// Get retrieves the value associated with key from the store.
func (db *DB) Get(key string) (string, bool, error) {
	if db.closed {
		return "", false, wrapDBErr("get", ErrClosed, db.dir, nil)
	}

	value, ok, err := db.store.Get(key)
	if err != nil {
		db.logger.Error("get failed", err, "key", key)
		return "", false, wrapDBErr("get", ErrReadFailed, db.dir, err)
	}
	db.logger.Debug("get operation", "key", key, "found", ok)
	return value, ok, nil
}

// Entries returns every payload currently in the WAL, in append order.
func (db *DB) Entries() ([][]byte, error) {
	if db.closed {
		return nil, wrapDBErr("entries", ErrClosed, db.dir, nil)
	}

	payloads, err := db.wal.ReadAll()
	if err != nil {
		return nil, wrapDBErr("entries", ErrReadFailed, db.dir, err)
	}
	return payloads, nil
}

// Checkpoint truncates the WAL. Every logged entry has already been applied
// to the store at write time (and again at replay), so once the store is
// durable the log content is redundant. If truncation fails the log keeps its
// entries; they are replayed and reapplied on the next open, which the store
// tolerates.
func (db *DB) Checkpoint() error {
	if db.closed {
		return wrapDBErr("checkpoint", ErrClosed, db.dir, nil)
	}

	if err := db.wal.Truncate(); err != nil {
		db.logger.Error("checkpoint failed", err, "dir", db.dir)
		return wrapDBErr("checkpoint", ErrCheckpointFailed, db.dir, err)
	}

	db.logger.Info("checkpoint complete", "dir", db.dir)
	return nil
}

// Stats describes the current database state.
type Stats struct {
	WalSizeBytes int64
	WalEntries   int
	Keys         int
}

// Stats scans the WAL and counts live store keys.
func (db *DB) Stats() (*Stats, error) {
	if db.closed {
		return nil, wrapDBErr("stats", ErrClosed, db.dir, nil)
	}

	scan, err := db.wal.Scan()
	if err != nil {
		return nil, wrapDBErr("stats", ErrReadFailed, db.dir, err)
	}

	keys, err := db.store.Len()
	if err != nil {
		return nil, wrapDBErr("stats", ErrReadFailed, db.dir, err)
	}

	return &Stats{
		WalSizeBytes: db.wal.Size(),
		WalEntries:   len(scan.Payloads),
		Keys:         keys,
	}, nil
}

// ReplayResult returns the result of the replay performed at open.
func (db *DB) ReplayResult() *recovery.ReplayResult {
	return db.lastReplay
}

// Dir returns the database directory.
func (db *DB) Dir() string {
	return db.dir
}

// IsClosed returns true if the database is closed.
func (db *DB) IsClosed() bool {
	return db.closed
}

// Close releases the WAL file handle and the store.
func (db *DB) Close() error {
	if db.closed {
		return wrapDBErr("close", ErrClosed, db.dir, nil)
	}

	db.logger.Info("closing database", "dir", db.dir)

	if err := db.wal.Close(); err != nil {
		db.logger.Error("failed to close WAL", err, "dir", db.dir)
		return wrapDBErr("close", ErrCloseFailed, db.dir, err)
	}
	if err := db.store.Close(); err != nil {
		db.logger.Error("failed to close store", err, "dir", db.dir)
		return wrapDBErr("close", ErrCloseFailed, db.dir, err)
	}

	db.closed = true
	return nil
}

func (db *DB) apply(cmd store.Command) error {
	if db.closed {
		return wrapDBErr(cmd.Kind.String(), ErrClosed, db.dir, nil)
	}

	// Reject bad keys before anything reaches the log: once appended, an
	// unparsable entry would fail replay on every subsequent open.
	if err := store.ValidateKey(cmd.Key); err != nil {
		return wrapDBErr(cmd.Kind.String(), ErrInvalidKey, db.dir, err)
	}

	payload := cmd.Encode()

	// Log first: the entry must be durable before the store mutates.
	offset, err := db.wal.Append(payload)
	if err != nil {
		db.logger.Error("append failed", err, "kind", cmd.Kind.String(), "key", cmd.Key)
		return wrapDBErr(cmd.Kind.String(), ErrWriteFailed, db.dir, err)
	}

	if err := db.store.Apply(payload); err != nil {
		// The entry is in the log; replay on the next open converges the store.
		db.logger.Error("store apply failed", err, "kind", cmd.Kind.String(), "key", cmd.Key, "offset", offset)
		return wrapDBErr(cmd.Kind.String(), ErrWriteFailed, db.dir, err)
	}

	db.logger.Debug("applied", "kind", cmd.Kind.String(), "key", cmd.Key, "offset", offset)
	return nil
}

func (db *DB) initialize(opts redolog.OpenOptions) error {
	if err := helpers.Ensure(db.dir, true); err != nil {
		return wrapDBErr("open", ErrInitFailed, db.dir, err)
	}

	man, err := manifest.Open(db.dir)
	if err != nil {
		if !errors.Is(err, manifest.ErrManifestNotFound) {
			return wrapDBErr("open", ErrManifestFailed, db.dir, err)
		}
		man, err = manifest.Create(db.dir)
		if err != nil {
			return wrapDBErr("open", ErrManifestFailed, db.dir, err)
		}
		db.logger.Info("created default manifest", "dir", db.dir)
	}
	db.man = man

	driver := man.StoreDriver
	if opts.StoreDriver != "" {
		driver = opts.StoreDriver
	}

	st, err := db.openStore(driver)
	if err != nil {
		return wrapDBErr("open", ErrStoreOpenFailed, db.dir, err)
	}
	db.store = st

	log, err := wal.Open(man.WalPath(db.dir), db.logger)
	if err != nil {
		db.logger.Error("failed to open WAL", err, "dir", db.dir)
		return wrapDBErr("open", ErrWALOpenFailed, db.dir, err)
	}
	db.wal = log

	db.logger.Info("starting recovery", "dir", db.dir, "wal_size", log.Size())
	res, err := recovery.Replay(log, st, db.logger)
	if err != nil {
		db.logger.Error("recovery failed", err, "dir", db.dir)
		return wrapDBErr("replay", ErrReplayFailed, db.dir, err)
	}
	db.lastReplay = res

	return nil
}

func (db *DB) openStore(driver string) (Store, error) {
	switch driver {
	case redolog.StoreDriverMemory:
		return store.New(), nil
	case redolog.StoreDriverSqlite:
		return sqlitestore.Open(db.man.StorePath(db.dir))
	default:
		return nil, wrapDBErr("open", ErrStoreOpenFailed, db.dir, errors.New("unknown store driver: "+driver))
	}
}
