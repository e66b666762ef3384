package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"seenkeeper/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFallback(op string)
	IncMirrorWriteFailures(op string)
	IncMigrationRuns(result string)
	ObserveMigrationDuration(duration time.Duration)
	SetStoreMode(mode string)
	SetViewedItemsTotal(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	fallbackTotal       *prometheus.CounterVec
	mirrorFailuresTotal *prometheus.CounterVec
	migrationRuns       *prometheus.CounterVec
	migrationDuration   prometheus.Histogram
	storeMode           *prometheus.GaugeVec
	viewedItemsTotal    prometheus.Gauge
}

var storeModes = []string{"structured", "fallback"}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncFallback(op string) {
	m.fallbackTotal.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) IncMirrorWriteFailures(op string) {
	m.mirrorFailuresTotal.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) IncMigrationRuns(result string) {
	m.migrationRuns.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) ObserveMigrationDuration(duration time.Duration) {
	m.migrationDuration.Observe(duration.Seconds())
}

// SetStoreMode raises the gauge of the active mode and zeroes the others.
func (m *MetricsProvider) SetStoreMode(mode string) {
	for _, candidate := range storeModes {
		value := 0.0
		if candidate == mode {
			value = 1
		}
		m.storeMode.WithLabelValues(candidate).Set(value)
	}
}

func (m *MetricsProvider) SetViewedItemsTotal(count int) {
	m.viewedItemsTotal.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seenkeeper_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seenkeeper_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seenkeeper_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seenkeeper_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		fallbackTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seenkeeper_fallback_total",
			Help: "Operations served by the legacy store because the structured store failed",
		}, []string{"op"}),

		mirrorFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seenkeeper_mirror_write_failures_total",
			Help: "Best-effort legacy mirror writes that failed",
		}, []string{"op"}),

		migrationRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seenkeeper_migration_runs_total",
			Help: "Legacy migration attempts by outcome",
		}, []string{"result"}),

		migrationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "seenkeeper_migration_duration_seconds",
			Help:    "Duration of legacy migration runs in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		storeMode: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "seenkeeper_store_mode",
			Help: "1 for the store currently serving requests",
		}, []string{"mode"}),

		viewedItemsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "seenkeeper_viewed_items_total",
			Help: "Number of registered viewed items at the last count",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncFallback(_ string)                             {}
func (n *noopMetrics) IncMirrorWriteFailures(_ string)                  {}
func (n *noopMetrics) IncMigrationRuns(_ string)                        {}
func (n *noopMetrics) ObserveMigrationDuration(_ time.Duration)         {}
func (n *noopMetrics) SetStoreMode(_ string)                            {}
func (n *noopMetrics) SetViewedItemsTotal(_ int)                        {}
