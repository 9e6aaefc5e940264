package cart

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Storage.Get when nothing is stored under the key
var ErrKeyNotFound = errors.New("storage: key not found")

// Storage is the persistent key-value store backing session carts
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
