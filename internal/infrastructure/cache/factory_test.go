package cache

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/techbites/storefront/internal/infrastructure/config"
)

// unreachableRedis returns a config pointing at a port nothing listens on
func unreachableRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return config.RedisConfig{Host: "127.0.0.1", Port: port}
}

func TestStorageFactory_CreateStorage(t *testing.T) {
	t.Run("falls back to memory when Redis is unavailable", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		f := NewStorageFactory(unreachableRedis(t), WithLogger(zap.New(core)))

		storage, err := f.CreateStorage()
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, storage)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("fails when fallback is disabled", func(t *testing.T) {
		f := NewStorageFactory(unreachableRedis(t), WithInMemoryFallback(false))

		storage, err := f.CreateStorage()
		assert.Nil(t, storage)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Redis required")
	})
}

func TestStorageFactory_CreateInMemoryStorage(t *testing.T) {
	f := NewStorageFactory(config.RedisConfig{})
	assert.NotNil(t, f.CreateInMemoryStorage())
}
