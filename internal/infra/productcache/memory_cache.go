package productcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/skinguide/internal/domain/catalog"
)

const (
	defaultMaxEntries = 1024
	sweepInterval     = time.Minute
)

type entry struct {
	products  []catalog.Product
	expiresAt time.Time
}

// MemoryCache keeps search results in process memory, bounded to maxEntries keys.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), maxEntries: defaultMaxEntries, now: time.Now}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]catalog.Product, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]catalog.Product(nil), e.products...), true, nil
}

// Set implements Cache. A non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, products []catalog.Product, ttl time.Duration) error {
	now := c.now()
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(c.lastSweep) >= sweepInterval {
		c.sweepLocked(now)
	}
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.sweepLocked(now)
		if len(c.entries) >= c.maxEntries {
			c.evictSoonestLocked()
		}
	}
	c.entries[key] = entry{products: append([]catalog.Product(nil), products...), expiresAt: exp}
	return nil
}

func (c *MemoryCache) sweepLocked(now time.Time) {
	for key, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.lastSweep = now
}

// evictSoonestLocked drops the entry closest to expiry; entries without a ttl go last.
func (c *MemoryCache) evictSoonestLocked() {
	var (
		victim  string
		soonest time.Time
		found   bool
	)
	for key, e := range c.entries {
		if e.expiresAt.IsZero() {
			if !found {
				victim = key
			}
			continue
		}
		if !found || e.expiresAt.Before(soonest) {
			victim, soonest, found = key, e.expiresAt, true
		}
	}
	delete(c.entries, victim)
}

var _ Cache = (*MemoryCache)(nil)
