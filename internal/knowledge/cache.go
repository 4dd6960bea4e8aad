package knowledge

import "sync"

type cacheKey struct {
	op     Operation
	query  string
	target string
}

// resultCache memoizes query results for the lifetime of a frozen graph.
// Two callers racing on the same missing key both compute it; the second
// put overwrites the first with the same value.
type resultCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]Result
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[cacheKey]Result)}
}

func (c *resultCache) get(k cacheKey) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[k]
	return r, ok
}

func (c *resultCache) put(k cacheKey, r Result) {
	c.mu.Lock()
	c.entries[k] = r
	c.mu.Unlock()
}

func (c *resultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
