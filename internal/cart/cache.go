package cart

import (
	"sync"
	"time"

	"tour-booking-platform/internal/models"
)

// DefaultCacheTTL is how long an authenticated cart read stays served from
// cache before the next GetCart hits the backend again.
const DefaultCacheTTL = 10 * time.Second

// Clock returns the current time. Injected so cache expiry is testable
// without sleeping.
type Clock func() time.Time

// Cache is the short-lived read cache in front of backend cart fetches,
// keyed by bearer token. Mutating façade calls invalidate before returning.
type Cache interface {
	Get(token string) ([]models.CartLineItem, bool)
	Set(token string, items []models.CartLineItem)
	Invalidate(token string)
}

type cacheEntry struct {
	items     []models.CartLineItem
	fetchedAt time.Time
}

// MemoryCache is the default single-instance Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   Clock
	entries map[string]cacheEntry
}

// NewMemoryCache creates a cache with the given TTL. A nil clock means
// wall-clock time; a zero ttl means DefaultCacheTTL.
func NewMemoryCache(ttl time.Duration, clock Clock) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &MemoryCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

func (c *MemoryCache) Get(token string) ([]models.CartLineItem, bool) {
	c.mu.RLock()
	entry, ok := c.entries[token]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.clock().Sub(entry.fetchedAt) > c.ttl {
		c.Invalidate(token)
		return nil, false
	}

	// Callers get their own slice so mutating it cannot poison the cache.
	items := make([]models.CartLineItem, len(entry.items))
	copy(items, entry.items)
	return items, true
}

func (c *MemoryCache) Set(token string, items []models.CartLineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = cacheEntry{items: items, fetchedAt: c.clock()}
}

func (c *MemoryCache) Invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
}
