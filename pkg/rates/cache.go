package rates

import (
	"sync"
	"time"
)

// rateEntry holds a cached hourly rate with its expiration time.
type rateEntry struct {
	rate       float64
	found      bool
	expiresAt  time.Time
	insertedAt time.Time
}

// rateCache is a thread-safe in-memory cache with TTL and max-size eviction
// for labor-rate lookups. Negative lookups (role not found) are cached too,
// so repeated estimates against a misspelled role do not hammer the database.
// Expired entries are lazily evicted on get.
type rateCache struct {
	mu      sync.RWMutex
	items   map[string]*rateEntry
	maxSize int
	ttl     time.Duration
}

// newRateCache creates a cache with the given maximum size and TTL.
func newRateCache(maxSize int, ttl time.Duration) *rateCache {
	if maxSize < 1 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &rateCache{
		items:   make(map[string]*rateEntry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// get retrieves a cached rate by role. The second return reports whether the
// cache holds an entry; the rateEntry's found field reports whether the role
// exists in the database.
func (c *rateCache) get(role string) (*rateEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[role]
	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		delete(c.items, role)
		return nil, false
	}

	return e, true
}

// set stores a lookup result. If the cache is at capacity, the oldest entry
// (by insertion time) is evicted before inserting.
func (c *rateCache) set(role string, rate float64, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	if _, ok := c.items[role]; !ok && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	c.items[role] = &rateEntry{
		rate:       rate,
		found:      found,
		expiresAt:  now.Add(c.ttl),
		insertedAt: now,
	}
}

// invalidateAll removes all entries from the cache.
func (c *rateCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*rateEntry, c.maxSize)
}

// evictOldest removes the entry with the oldest insertedAt timestamp.
// Must be called with c.mu held.
func (c *rateCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for k, e := range c.items {
		if first || e.insertedAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = e.insertedAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
