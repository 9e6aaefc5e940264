package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/techbites/storefront/internal/application/cart"
	"github.com/techbites/storefront/internal/infrastructure/config"
)

// StorageFactory creates cart storages backed by Redis or memory
type StorageFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StorageFactoryOption is a functional option for configuring the factory
type StorageFactoryOption func(*StorageFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StorageFactoryOption {
	return func(f *StorageFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to memory when Redis is unavailable
func WithInMemoryFallback(allow bool) StorageFactoryOption {
	return func(f *StorageFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithTTL sets the expiry of carts stored in Redis
func WithTTL(ttl time.Duration) StorageFactoryOption {
	return func(f *StorageFactory) {
		f.ttl = ttl
	}
}

// NewStorageFactory creates a new factory
func NewStorageFactory(cfg config.RedisConfig, opts ...StorageFactoryOption) *StorageFactory {
	f := &StorageFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStorage connects to the configured Redis server
func (f *StorageFactory) CreateRedisStorage() (*RedisStorage, error) {
	storage, err := NewRedisStorage(RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cart storage: %w", err)
	}
	return storage, nil
}

// CreateInMemoryStorage creates a process-local storage
func (f *StorageFactory) CreateInMemoryStorage() *MemoryStorage {
	return NewMemoryStorage()
}

// CreateStorage tries Redis first and falls back to memory when allowed
func (f *StorageFactory) CreateStorage() (cart.Storage, error) {
	storage, err := f.CreateRedisStorage()
	if err == nil {
		f.logger.Info("Using Redis cart storage", zap.String("addr", f.redisConfig.Addr()))
		return storage, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for cart storage but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cart storage. "+
		"Carts will be lost on restart and not shared between instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStorage(), nil
}
