package cache

import (
	"context"
	"errors"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// cacheEntry is the single-table schema behind the SQLite store.
type cacheEntry struct {
	Key       string `gorm:"primaryKey"`
	Payload   []byte
	UpdatedAt time.Time
}

func (cacheEntry) TableName() string { return "cache_entries" }

// SQLiteStore is the embedded on-disk cache backend. It uses the CGO-free
// sqlite driver so the binary stays cross-compilable.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the cache database at the given path and
// migrates the cache table.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&cacheEntry{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts the payload under the given key.
func (s *SQLiteStore) Save(ctx context.Context, key string, payload []byte) error {
	entry := cacheEntry{
		Key:       key,
		Payload:   payload,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry).Error
}

// Load reads the payload stored under the given key.
func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	var entry cacheEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Payload, nil
}

// Clear deletes the entry under the given key. Deleting a missing key is
// not an error.
func (s *SQLiteStore) Clear(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&cacheEntry{}, "key = ?", key).Error
}

// Ping verifies the database handle is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
