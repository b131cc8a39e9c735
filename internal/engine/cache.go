package engine

import (
	"sync"
	"time"
)

// outcome distinguishes a resolved date from the two skip sentinels. The
// unknown/error split is diagnostic only; both mean "no violation, move on".
type outcome int

const (
	outcomeDate outcome = iota
	outcomeUnknown
	outcomeError
)

type cacheEntry struct {
	outcome  outcome
	released time.Time
}

// resultCache deduplicates lookups by gem key. Workers check presence without
// holding a lock across the network call, so two workers may race on the same
// key; the write is serialized and the cache converges to one entry per key.
type resultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[string]cacheEntry)}
}

func (c *resultCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *resultCache) Put(key string, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

func (c *resultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
