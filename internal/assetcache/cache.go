// Package assetcache provides a bounded, evicting cache for loaded asset
// payloads (textures, materials, and similar ASSET-tagged data), sitting
// in front of the memory pool so repeated loads of the same path are free.
package assetcache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/emberengine/ember/internal/metrics"
)

// Cache is a fixed-capacity LRU keyed by asset path.
type Cache struct {
	lru     *lru.Cache[string, []byte]
	metrics *metrics.Collector
}

// New creates a Cache holding at most capacity entries, evicting the least
// recently used on overflow.
func New(capacity int) (*Cache, error) {
	c, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// AttachMetrics wires a metrics.Collector that Put reports ASSET
// allocation and eviction counts to.
func (c *Cache) AttachMetrics(m *metrics.Collector) {
	c.metrics = m
}

// Get returns the cached payload for path, if present.
func (c *Cache) Get(path string) ([]byte, bool) {
	return c.lru.Get(path)
}

// Put inserts or replaces path's payload, evicting the LRU entry if the
// cache is at capacity.
func (c *Cache) Put(path string, data []byte) {
	evicted := c.lru.Add(path, data)
	if evicted && c.metrics != nil {
		c.metrics.RecordFree("ASSET")
	}
	if c.metrics != nil {
		c.metrics.RecordAllocation("ASSET")
	}
}

// Remove evicts path from the cache, if present.
func (c *Cache) Remove(path string) {
	c.lru.Remove(path)
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.lru.Purge()
}
