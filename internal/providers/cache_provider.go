package providers

import (
	"github.com/coocood/freecache"
	"seenkeeper/internal/structures"
)

// CacheProviderInterface holds rendered read views (item list, count).
// Any mutation of the viewed-items set drops every view at once.
type CacheProviderInterface interface {
	Get(view string) ([]byte, bool)
	Set(view string, body []byte)
	Invalidate()
}

type CacheProvider struct {
	views *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "View cache disabled")
		return &noopCache{}
	}

	ttl := max(int(conf.Cache.TTL.Seconds()), 1)
	logger.Infof(TypeApp, "View cache: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		views: freecache.NewCache(conf.Cache.Size * 1024 * 1024),
		ttl:   ttl,
	}
}

func (c *CacheProvider) Get(view string) ([]byte, bool) {
	body, err := c.views.Get([]byte(view))
	if err != nil {
		return nil, false
	}
	return body, true
}

func (c *CacheProvider) Set(view string, body []byte) {
	_ = c.views.Set([]byte(view), body, c.ttl)
}

func (c *CacheProvider) Invalidate() {
	c.views.Clear()
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
func (n *noopCache) Invalidate()                 {}
