package redolog

// On-disk defaults
const (
	DefaultWalFileName   = "redo.wal"
	DefaultStoreFileName = "store.db"
	ManifestVersion      = 1
)

// Store drivers
const (
	StoreDriverSqlite = "sqlite"
	StoreDriverMemory = "memory"
)

// Log file defaults
const (
	DefaultAppDir        = ".redolog"
	DefaultLogDir        = "logs"
	DefaultLogFileName   = "redolog.log"
	DefaultLogMaxSize    = 100
	DefaultLogMaxBackups = 3
	DefaultLogLevel      = "info"
)
