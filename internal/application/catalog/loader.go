package catalog

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/techbites/storefront/internal/domain/catalog"
)

const tracerName = "github.com/techbites/storefront/internal/application/catalog"

// Fetch outcomes recorded on catalog_fetch_total
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var fetchDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Loader fetches the product catalog from a ProductSource and holds it in memory.
// Failures are logged and never retried; the previous catalog stays in place.
type Loader struct {
	source  catalog.ProductSource
	logger  *zap.Logger
	metrics loaderMetrics

	once sync.Once

	mu         sync.RWMutex
	products   []catalog.Product
	generation uint64
	loaded     bool
	lastErr    error
	filtered   map[catalog.Category][]catalog.Product
}

// LoaderOption configures a Loader
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	meterProvider metric.MeterProvider
}

// WithMeterProvider records fetch metrics on mp instead of the global provider
func WithMeterProvider(mp metric.MeterProvider) LoaderOption {
	return func(o *loaderOptions) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

type loaderMetrics struct {
	fetches  metric.Int64Counter
	duration metric.Float64Histogram
	products metric.Int64Gauge
}

func newLoaderMetrics(mp metric.MeterProvider, logger *zap.Logger) loaderMetrics {
	meter := mp.Meter(tracerName)
	fallback := noop.Meter{}

	fetches, err := meter.Int64Counter("catalog_fetch_total",
		metric.WithDescription("Catalog fetches by outcome"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		logger.Warn("Failed to create catalog fetch counter", zap.Error(err))
		fetches, _ = fallback.Int64Counter("catalog_fetch_total")
	}
	duration, err := meter.Float64Histogram("catalog_fetch_duration_seconds",
		metric.WithDescription("Catalog fetch latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(fetchDurationBuckets...),
	)
	if err != nil {
		logger.Warn("Failed to create catalog fetch histogram", zap.Error(err))
		duration, _ = fallback.Float64Histogram("catalog_fetch_duration_seconds")
	}
	products, err := meter.Int64Gauge("catalog_products",
		metric.WithDescription("Products in the current catalog"),
		metric.WithUnit("{product}"),
	)
	if err != nil {
		logger.Warn("Failed to create catalog size gauge", zap.Error(err))
		products, _ = fallback.Int64Gauge("catalog_products")
	}
	return loaderMetrics{fetches: fetches, duration: duration, products: products}
}

// NewLoader creates a Loader with an empty catalog
func NewLoader(source catalog.ProductSource, logger *zap.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := loaderOptions{meterProvider: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{
		source:   source,
		logger:   logger,
		metrics:  newLoaderMetrics(o.meterProvider, logger),
		products: []catalog.Product{},
		filtered: make(map[catalog.Category][]catalog.Product),
	}
}

// Load performs the startup fetch. Only the first call reaches the source.
func (l *Loader) Load(ctx context.Context) {
	l.once.Do(func() {
		l.fetch(ctx)
	})
}

// Reload fetches the catalog again regardless of previous attempts
func (l *Loader) Reload(ctx context.Context) {
	l.once.Do(func() {})
	l.fetch(ctx)
}

func (l *Loader) fetch(ctx context.Context) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "catalog.fetch")
	defer span.End()

	start := time.Now()
	rows, err := l.source.ListProducts(ctx)
	l.metrics.duration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		l.metrics.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", OutcomeError)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger.Error("Failed to load catalog", zap.Error(err))

		l.mu.Lock()
		l.lastErr = err
		l.mu.Unlock()
		return
	}

	products, rejected := catalog.Sanitize(rows)
	for _, r := range rejected {
		l.logger.Warn("Dropping invalid catalog row",
			zap.Int("index", r.Index),
			zap.Error(r.Err),
		)
	}
	span.SetAttributes(
		attribute.Int("catalog.rows", len(rows)),
		attribute.Int("catalog.products", len(products)),
	)

	l.metrics.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", OutcomeSuccess)))
	l.metrics.products.Record(ctx, int64(len(products)))

	l.mu.Lock()
	l.products = products
	l.generation++
	l.filtered = make(map[catalog.Category][]catalog.Product)
	l.loaded = true
	l.lastErr = nil
	l.mu.Unlock()

	l.logger.Info("Catalog loaded",
		zap.Int("products", len(products)),
		zap.Int("rejected", len(rejected)),
	)
}

// Products returns a copy of the current catalog in source order
func (l *Loader) Products() []catalog.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]catalog.Product, len(l.products))
	copy(out, l.products)
	return out
}

// Find returns the catalog product with the given id
func (l *Loader) Find(id int64) (catalog.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// ByCategory returns the products of one category.
// Results are cached until the catalog is replaced.
func (l *Loader) ByCategory(category catalog.Category) []catalog.Product {
	l.mu.RLock()
	cached, ok := l.filtered[category]
	l.mu.RUnlock()
	if ok {
		return copyProducts(cached)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.filtered[category]; ok {
		return copyProducts(cached)
	}
	result := catalog.FilterByCategory(l.products, category)
	l.filtered[category] = result
	return copyProducts(result)
}

// Generation increases every time the catalog is replaced
func (l *Loader) Generation() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.generation
}

// Loaded reports whether a fetch has succeeded
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// LastError returns the error of the most recent failed fetch, or nil after a success
func (l *Loader) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

func copyProducts(products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, len(products))
	copy(out, products)
	return out
}
