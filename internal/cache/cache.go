// Package cache provides a process-wide, string-keyed TTL cache with bounded
// oldest-inserted-first eviction. It is not tenant-partitioned: any key that
// can hold tenant-specific data must embed the tenant identifier, which is
// the caller's responsibility.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	order      []string // insertion order, head is evicted first on overflow
	ttl        time.Duration
	maxEntries int
}

// New creates a cache holding at most maxEntries values, each expiring ttl
// after insertion.
func New(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]entry, maxEntries),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns the cached value, or false when absent or expired. Expired
// entries are removed on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.remove(key)
		return nil, false
	}

	return e.value, true
}

// Set stores value under key. Re-setting an existing key refreshes the value
// and TTL but keeps the key's original insertion position. When the cache is
// full, the oldest-inserted entry is evicted.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxEntries && len(c.order) > 0 {
			c.remove(c.order[0])
		}
		c.order = append(c.order, key)
	}

	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Len returns the number of stored entries, including not-yet-collected
// expired ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
