package providers

import (
	"seenkeeper/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevReg, prevGather := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGather
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/items", 200)
	m.ObserveRequestDuration("/items", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncFallback("get_all")
	m.IncMirrorWriteFailures("write_all")
	m.IncMigrationRuns("done")
	m.ObserveMigrationDuration(time.Millisecond)
	m.SetStoreMode("fallback")
	m.SetViewedItemsTotal(3)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	withTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_Counters(t *testing.T) {
	withTestRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}).(*MetricsProvider)

	m.IncFallback("count")
	m.IncFallback("count")
	m.IncMirrorWriteFailures("write_all")
	m.IncMigrationRuns("failed")
	m.SetViewedItemsTotal(42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fallbackTotal.WithLabelValues("count")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mirrorFailuresTotal.WithLabelValues("write_all")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.migrationRuns.WithLabelValues("failed")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.viewedItemsTotal))
}

func TestMetricsProvider_StoreModeIsExclusive(t *testing.T) {
	withTestRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}).(*MetricsProvider)

	m.SetStoreMode("structured")
	m.SetStoreMode("fallback")

	require.Equal(t, 0.0, testutil.ToFloat64(m.storeMode.WithLabelValues("structured")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeMode.WithLabelValues("fallback")))
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
