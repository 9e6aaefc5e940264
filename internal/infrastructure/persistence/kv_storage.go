package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techbites/storefront/internal/application/cart"
	"github.com/techbites/storefront/internal/infrastructure/persistence/models"
)

// GormStorage is a cart.Storage backed by the storefront_kv table
type GormStorage struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStorage creates a storage over db
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db, now: time.Now}
}

// EnsureSchema creates the storefront_kv table when missing.
// Postgres deployments get the table from migrations instead.
func (s *GormStorage) EnsureSchema() error {
	return s.db.AutoMigrate(&models.KeyValueModel{})
}

// Get returns the value stored under key, or cart.ErrKeyNotFound
func (s *GormStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var row models.KeyValueModel
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return []byte(row.Value), nil
}

// Set inserts or replaces the value stored under key
func (s *GormStorage) Set(ctx context.Context, key string, value []byte) error {
	row := models.KeyValueModel{
		Key:       key,
		Value:     string(value),
		UpdatedAt: s.now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}
