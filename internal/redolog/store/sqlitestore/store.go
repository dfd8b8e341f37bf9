package sqlitestore

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"

	"github.com/julianstephens/redolog/internal/redolog/store"
)

// Pair is one key/value row in the kv table.
type Pair struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (Pair) TableName() string {
	return "kv"
}

// Store is a durable apply target backed by sqlite. Apply is an upsert (or an
// unconditional delete), so re-replaying entries after an interrupted
// checkpoint leaves the store unchanged.
type Store struct {
	db   *gorm.DB
	path string
}

// Open opens or creates the sqlite database at the given path and ensures the
// kv table exists.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: glog.Default.LogMode(glog.Silent),
	})
	if err != nil {
		return nil, wrapStoreErr("open", ErrOpenFailed, path, err)
	}

	if err := db.AutoMigrate(&Pair{}); err != nil {
		return nil, wrapStoreErr("migrate", ErrMigrateFailed, path, err)
	}

	return &Store{
		db:   db,
		path: path,
	}, nil
}

// Apply decodes one logged payload and applies it to the kv table.
func (s *Store) Apply(payload []byte) error {
	cmd, err := store.ParseCommand(payload)
	if err != nil {
		return err
	}

	switch cmd.Kind {
	case store.CommandSet:
		// Save upserts on the primary key.
		if err := s.db.Save(&Pair{Key: cmd.Key, Value: cmd.Value}).Error; err != nil {
			return wrapStoreErr("apply", ErrApplyFailed, s.path, err)
		}
	case store.CommandDelete:
		if err := s.db.Where("key = ?", cmd.Key).Delete(&Pair{}).Error; err != nil {
			return wrapStoreErr("apply", ErrApplyFailed, s.path, err)
		}
	}
	return nil
}

// Get returns the value for key if present.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	var row Pair
	if err := s.db.First(&row, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, wrapStoreErr("get", ErrQueryFailed, s.path, err)
	}
	return row.Value, true, nil
}

// Len returns the number of live keys.
func (s *Store) Len() (int, error) {
	var n int64
	if err := s.db.Model(&Pair{}).Count(&n).Error; err != nil {
		return 0, wrapStoreErr("count", ErrQueryFailed, s.path, err)
	}
	return int(n), nil
}

// Close releases the underlying sqlite connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrapStoreErr("close", ErrCloseFailed, s.path, err)
	}
	if err := sqlDB.Close(); err != nil {
		return wrapStoreErr("close", ErrCloseFailed, s.path, err)
	}
	return nil
}
