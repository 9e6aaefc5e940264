package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/techbites/storefront/internal/infrastructure/config"
	"github.com/techbites/storefront/internal/infrastructure/telemetry"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, config.TelemetryConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		MetricsInterval:   time.Minute,
		ServiceName:       "storefront-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.Equal(t, otel.GetMeterProvider(), mp.Provider())
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.ForceFlush(ctx))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.NoError(t, mp.Shutdown(cancelled))
}

func TestNewMeterProviderWithReader(t *testing.T) {
	previous := otel.GetMeterProvider()
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, config.TelemetryConfig{ServiceName: "storefront-test"}, zap.NewNop())
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	assert.True(t, mp.IsEnabled())
	assert.Equal(t, previous, otel.GetMeterProvider(), "the global provider is left alone")

	ctx := context.Background()
	meter := mp.Meter("storefront")

	counter, err := telemetry.NewCounter(meter, "orders_total", "Orders composed", "{order}")
	require.NoError(t, err)
	counter.Inc(ctx, telemetry.AttrHTTPMethod.String("POST"))
	counter.Inc(ctx, telemetry.AttrHTTPMethod.String("POST"))

	hist, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:       "render_duration_seconds",
		Unit:       "s",
		Boundaries: telemetry.HTTPDurationBuckets,
	})
	require.NoError(t, err)
	hist.RecordDuration(ctx, 30*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	sum, ok := byName["orders_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)

	h, ok := byName["render_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, telemetry.HTTPDurationBuckets, h.DataPoints[0].Bounds)
	assert.InDelta(t, 0.03, h.DataPoints[0].Sum, 0.0001)

	assert.NoError(t, mp.ForceFlush(ctx))
}
