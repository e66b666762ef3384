package providers

import "seenkeeper/internal/structures"

// countingCache reports view cache hits and misses.
type countingCache struct {
	views   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *countingCache) Get(view string) ([]byte, bool) {
	body, ok := c.views.Get(view)
	if !ok {
		c.metrics.IncCacheMisses()
		return nil, false
	}
	c.metrics.IncCacheHits()
	return body, true
}

func (c *countingCache) Set(view string, body []byte) { c.views.Set(view, body) }

func (c *countingCache) Invalidate() { c.views.Invalidate() }

// NewInstrumentedCacheProvider skips counting when the cache is disabled;
// every lookup would be a miss.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	views := NewCacheProvider(conf, logger)
	if _, ok := views.(*noopCache); ok {
		return views
	}
	return &countingCache{views: views, metrics: metrics}
}
