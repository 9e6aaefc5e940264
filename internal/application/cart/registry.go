package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/techbites/storefront/internal/domain/cart"
)

// DefaultAppKey prefixes every storage key
const DefaultAppKey = "carrinho-techbites"

// DefaultSweepInterval is how often Run looks for idle stores
const DefaultSweepInterval = 5 * time.Minute

// Registry keeps one Store per browser session.
// Stores unused for longer than the idle timeout are dropped; their
// persisted carts stay in Storage and are hydrated again on the next Get.
type Registry struct {
	appKey      string
	storage     Storage
	ids         cart.IDGenerator
	logger      *zap.Logger
	idleTimeout time.Duration
	now         func() time.Time

	mu     sync.RWMutex
	stores map[string]*Store
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithAppKey overrides DefaultAppKey
func WithAppKey(appKey string) RegistryOption {
	return func(r *Registry) {
		if appKey != "" {
			r.appKey = appKey
		}
	}
}

// WithIDGenerator sets the generator used for cart entry ids
func WithIDGenerator(ids cart.IDGenerator) RegistryOption {
	return func(r *Registry) {
		r.ids = ids
	}
}

// WithLogger sets the registry logger
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithIdleTimeout drops stores not used for d. Zero keeps them forever.
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		r.idleTimeout = d
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates a registry persisting carts to storage
func NewRegistry(storage Storage, opts ...RegistryOption) *Registry {
	r := &Registry{
		appKey:  DefaultAppKey,
		storage: storage,
		ids:     cart.UUIDGenerator{},
		logger:  zap.NewNop(),
		now:     time.Now,
		stores:  make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the storage key for a session
func (r *Registry) Key(sessionID string) string {
	return r.appKey + ":" + sessionID
}

// Get returns the hydrated store of a session, creating it on first use
func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	store := r.lookupOrCreate(sessionID)
	store.touch(r.now())
	store.Hydrate(ctx)
	return store
}

// View returns the store of a session for reading. A session that has none
// gets a hydrated store that is not registered, so reads never add sessions.
func (r *Registry) View(ctx context.Context, sessionID string) *Store {
	store, ok := r.Lookup(sessionID)
	if !ok {
		store = NewStore(r.Key(sessionID), r.storage, r.ids, r.logger)
	}
	store.Hydrate(ctx)
	return store
}

// Lookup returns the store of a session without creating or hydrating it
func (r *Registry) Lookup(sessionID string) (*Store, bool) {
	r.mu.RLock()
	store, ok := r.stores[sessionID]
	r.mu.RUnlock()
	if ok {
		store.touch(r.now())
	}
	return store, ok
}

// Len returns the number of known sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}

// Evict drops every store idle for longer than the idle timeout and
// returns how many were removed
func (r *Registry) Evict() int {
	if r.idleTimeout <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for sessionID, store := range r.stores {
		if store.lastUsed().Before(cutoff) {
			delete(r.stores, sessionID)
			evicted++
		}
	}
	return evicted
}

// Run calls Evict every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.idleTimeout <= 0 {
		return
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				r.logger.Debug("Evicted idle carts",
					zap.Int("evicted", n),
					zap.Int("remaining", r.Len()),
				)
			}
		}
	}
}

func (r *Registry) lookupOrCreate(sessionID string) *Store {
	r.mu.RLock()
	store, ok := r.stores[sessionID]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[sessionID]; ok {
		return store
	}
	store = NewStore(r.Key(sessionID), r.storage, r.ids, r.logger)
	r.stores[sessionID] = store
	return store
}
