// Package cache holds in-process caches of store records.
package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"filelink-api/internal/domain/premium"
	"filelink-api/internal/domain/user"
)

var (
	grantCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "filelink",
		Name:      "premium_cache_hits_total",
		Help:      "Premium grant lookups served from the in-process cache.",
	})
	grantCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "filelink",
		Name:      "premium_cache_misses_total",
		Help:      "Premium grant lookups that went to the store.",
	})
)

// Grants caches premium grants per user. A nil grant is cached as a known
// absence. Fills are tagged with the generation observed before the store
// read, so a fill racing an invalidation is dropped instead of resurrecting
// the old grant.
type Grants struct {
	mu    sync.Mutex
	gen   uint64
	cache *expirable.LRU[user.ID, *premium.Grant]
}

func NewGrants(maxSize int, ttl time.Duration) *Grants {
	return &Grants{cache: expirable.NewLRU[user.ID, *premium.Grant](maxSize, nil, ttl)}
}

// Get returns the cached grant and the generation to pass to Set on a miss.
func (c *Grants) Get(userID user.ID) (*premium.Grant, bool, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.cache.Get(userID)
	if ok {
		grantCacheHitsTotal.Inc()
		return g, true, c.gen
	}
	grantCacheMissesTotal.Inc()
	return nil, false, c.gen
}

func (c *Grants) Set(userID user.ID, g *premium.Grant, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}
	c.cache.Add(userID, g)
}

func (c *Grants) Invalidate(userID user.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.cache.Remove(userID)
}
