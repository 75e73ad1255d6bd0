package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// CacheEntry is the single table backing the SQLite KV, the closest analog to
// the mobile app's on-device storage when the gateway runs as a sidecar.
type CacheEntry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

// TableName keeps the table name stable regardless of gorm pluralization.
func (CacheEntry) TableName() string {
	return "cache_entries"
}

// SQLiteStore implements KV on an embedded SQLite database.
type SQLiteStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database file and migrates the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.AutoMigrate(&CacheEntry{}); err != nil {
		return nil, fmt.Errorf("migrate cache schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var entry CacheEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if entry.ExpiresAt != nil && s.now().After(*entry.ExpiresAt) {
		_ = s.db.WithContext(ctx).Delete(&CacheEntry{}, "key = ?", key).Error
		return "", ErrNotFound
	}
	return entry.Value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := CacheEntry{Key: key, Value: value, UpdatedAt: s.now()}
	if ttl > 0 {
		expires := s.now().Add(ttl)
		entry.ExpiresAt = &expires
	}
	return s.db.WithContext(ctx).Save(&entry).Error
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&CacheEntry{}, "key = ?", key).Error
}
