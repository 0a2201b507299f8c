package out

import (
	"time"

	"github.com/patrickmn/go-cache"

	"profithopper/internal/modules/catalog/domain"
)

// MemoryCache keeps loaded catalogs for a bounded time, keyed by source.
type MemoryCache struct {
	store *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemoryCache{store: cache.New(ttl, 10*time.Minute)}
}

func (c *MemoryCache) Get(source string) (domain.Catalog, bool) {
	v, ok := c.store.Get(source)
	if !ok {
		return domain.Catalog{}, false
	}
	catalog, ok := v.(domain.Catalog)
	return catalog, ok
}

func (c *MemoryCache) Set(catalog domain.Catalog) {
	c.store.Set(catalog.Source, catalog, cache.DefaultExpiration)
}

func (c *MemoryCache) Flush() {
	c.store.Flush()
}
