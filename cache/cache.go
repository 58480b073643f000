package cache

import (
	"strings"
	"sync"
	"time"
)

// ResultCache is a concurrency-safe, TTL-gated store for tool results.
//
// Contract:
//   - Concurrency: all methods are safe for concurrent use. A single
//     exclusive lock guards the map; even Get takes it, because lazy
//     expiry deletes on probe and Invalidate must exclude readers.
//   - TTL: supplied by the caller at read time, not stored with the
//     entry. Different callers may apply different TTLs to the same
//     entry.
//   - Expiry: lazy only. Expired entries stay resident until the next
//     probe deletes them; there is no background sweep.
//   - Growth: unbounded. The key space is the set of distinct
//     (operation, arguments) pairs, which is small for fleet monitoring.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value      string
	insertedAt time.Time
}

// Stats is a point-in-time snapshot of cache occupancy.
type Stats struct {
	TotalEntries int
	PerOperation map[string]int
}

// New creates an empty ResultCache.
func New() *ResultCache {
	return &ResultCache{
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for (operation, args) if one exists and
// is younger than ttl. An entry older than ttl is deleted on the spot
// and reported as a miss, so no stale value ever reaches a caller.
func (c *ResultCache) Get(operation string, args map[string]any, ttl time.Duration) (string, bool) {
	key, err := Key(operation, args)
	if err != nil {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}

	if time.Since(e.insertedAt) > ttl {
		delete(c.entries, key)
		return "", false
	}

	return e.value, true
}

// Set stores value for (operation, args), overwriting any existing
// entry and resetting its insertion time.
func (c *ResultCache) Set(operation string, args map[string]any, value string) error {
	key, err := Key(operation, args)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, insertedAt: time.Now()}
	c.mu.Unlock()

	return nil
}

// Invalidate removes every entry belonging to the named operation, or
// every entry when operation is empty. It returns the number removed.
// Removal is atomic: concurrent readers see either the pre-invalidation
// state or an empty result, never a partial one.
func (c *ResultCache) Invalidate(operation string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if operation == "" {
		count := len(c.entries)
		c.entries = make(map[string]entry)
		return count
	}

	prefix := operation + opSeparator
	count := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			count++
		}
	}
	return count
}

// InvalidateAll removes every entry and returns the number removed.
func (c *ResultCache) InvalidateAll() int {
	return c.Invalidate("")
}

// Stats returns current occupancy broken down by operation. It never
// mutates state; entries past their would-be TTL still count because
// expiry is lazy and TTLs are not stored.
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		TotalEntries: len(c.entries),
		PerOperation: make(map[string]int),
	}
	for key := range c.entries {
		stats.PerOperation[operationOf(key)]++
	}
	return stats
}
