package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/techbites/storefront/internal/application/cart"
)

func newSQLiteStorage(t *testing.T) *GormStorage {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	storage := NewGormStorage(db)
	require.NoError(t, storage.EnsureSchema())
	return storage
}

func TestGormStorage_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		storage := newSQLiteStorage(t)

		_, err := storage.Get(ctx, "carrinho-techbites:nobody")
		assert.ErrorIs(t, err, cart.ErrKeyNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		storage := newSQLiteStorage(t)

		require.NoError(t, storage.Set(ctx, "k", []byte(`[{"id":1}]`)))

		value, err := storage.Get(ctx, "k")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1}]`, string(value))
	})

	t.Run("set replaces the previous value", func(t *testing.T) {
		storage := newSQLiteStorage(t)

		require.NoError(t, storage.Set(ctx, "k", []byte(`[1]`)))
		require.NoError(t, storage.Set(ctx, "k", []byte(`[]`)))

		value, err := storage.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(value))
	})

	t.Run("keys are independent", func(t *testing.T) {
		storage := newSQLiteStorage(t)

		require.NoError(t, storage.Set(ctx, "a", []byte(`"a"`)))
		require.NoError(t, storage.Set(ctx, "b", []byte(`"b"`)))

		a, err := storage.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, `"a"`, string(a))
	})
}

func TestGormStorage_PostgresUpsert(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectExec(`INSERT INTO "storefront_kv" \("key","value","updated_at"\) VALUES \(\$1,\$2,\$3\) ON CONFLICT \("key"\) DO UPDATE SET "value"="excluded"."value","updated_at"="excluded"."updated_at"`).
		WithArgs("carrinho-techbites:s1", `[]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewGormStorage(db.DB).Set(context.Background(), "carrinho-techbites:s1", []byte(`[]`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStorage_ReadError(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "storefront_kv" WHERE key = \$1`).
		WillReturnError(assert.AnError)

	_, err := NewGormStorage(db.DB).Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cart.ErrKeyNotFound)
}
