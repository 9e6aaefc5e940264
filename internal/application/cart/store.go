package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/techbites/storefront/internal/domain/cart"
	"github.com/techbites/storefront/internal/domain/catalog"
)

// Store owns one cart and mirrors it to Storage under a fixed key.
// Nothing is written before Hydrate has completed.
type Store struct {
	key     string
	storage Storage
	ids     cart.IDGenerator
	logger  *zap.Logger

	mu    sync.Mutex
	cart  *cart.Cart
	state cart.Lifecycle

	used atomic.Int64
}

// NewStore creates an uninitialized store for key
func NewStore(key string, storage Storage, ids cart.IDGenerator, logger *zap.Logger) *Store {
	if ids == nil {
		ids = cart.UUIDGenerator{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		key:     key,
		storage: storage,
		ids:     ids,
		logger:  logger.With(zap.String("cart_key", key)),
		cart:    cart.New(nil),
		state:   cart.Uninitialized,
	}
}

// Key returns the storage key
func (s *Store) Key() string {
	return s.key
}

// Hydrate loads the persisted cart and marks the store ready.
// A missing, unreadable or malformed value yields an empty cart.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == cart.Ready {
		return
	}

	s.cart = cart.New(s.read(ctx))
	s.state = cart.Ready
}

func (s *Store) read(ctx context.Context) []cart.Entry {
	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("Failed to read persisted cart", zap.Error(err))
		}
		return nil
	}
	entries, err := cart.Decode(data)
	if err != nil {
		s.logger.Warn("Discarding malformed persisted cart", zap.Error(err))
		return nil
	}
	return entries
}

func (s *Store) touch(t time.Time) {
	s.used.Store(t.UnixNano())
}

func (s *Store) lastUsed() time.Time {
	return time.Unix(0, s.used.Load())
}

// State returns the lifecycle state
func (s *Store) State() cart.Lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ready reports whether hydration has completed
func (s *Store) Ready() bool {
	return s.State() == cart.Ready
}

// Add appends product with a fresh cart id and persists the cart
func (s *Store) Add(ctx context.Context, product catalog.Product) cart.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.cart.Add(product, s.ids.NewID())
	s.persist(ctx)
	return entry
}

// Remove drops the entry with cartID. Unknown ids change nothing and write nothing.
func (s *Store) Remove(ctx context.Context, cartID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.Remove(cartID) {
		return false
	}
	s.persist(ctx)
	return true
}

// Clear empties the cart and persists the empty sequence
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Reset()
	s.persist(ctx)
}

// Entries returns the cart contents in insertion order
func (s *Store) Entries() []cart.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Entries()
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Len()
}

// Total returns the sum of entry prices
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// Snapshot returns the entries and their total as of the same instant
func (s *Store) Snapshot() ([]cart.Entry, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Entries(), s.cart.Total()
}

// persist must be called with mu held
func (s *Store) persist(ctx context.Context) {
	if s.state != cart.Ready {
		return
	}
	data, err := cart.Encode(s.cart.Entries())
	if err != nil {
		s.logger.Error("Failed to encode cart", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		s.logger.Error("Failed to persist cart", zap.Error(err))
	}
}
