package azmaps

import (
	"sync"

	"github.com/meadowmind/carematch-backend/pkg/geo"
)

// addressCache memoizes successful lookups by normalized address key for
// the lifetime of the process. It is advisory only: entries are never
// evicted or persisted, and staleness is acceptable.
type addressCache struct {
	mu      sync.RWMutex
	entries map[string]geo.Point
}

func newAddressCache() *addressCache {
	return &addressCache{entries: make(map[string]geo.Point)}
}

func (c *addressCache) get(key string) (geo.Point, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pt, ok := c.entries[key]
	return pt, ok
}

func (c *addressCache) put(key string, pt geo.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = pt
}
