package resolve

import "sync"

// Cache memoizes resolution results by normalized key for the lifetime
// of one session. Entries are write-once: the first resolution of a key
// wins, except that a concurrent resolution from a lower (better) tier
// replaces one from a higher tier, so racing batches converge on the
// same deterministic winner.
type Cache struct {
	mu      sync.RWMutex
	results map[string]*Result
}

// NewCache creates an empty session cache.
func NewCache() *Cache {
	return &Cache{results: make(map[string]*Result)}
}

// Get returns the cached result for a key.
func (c *Cache) Get(key string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.results[key]
	return res, ok
}

// Put stores a result unless a result with an equal or better
// provenance rank is already present. It returns the winning result.
func (c *Cache) Put(res *Result) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.results[res.Key]; ok && existing.Provenance <= res.Provenance {
		return existing
	}
	c.results[res.Key] = res
	return res
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// Snapshot copies the cached results for read-only inspection.
func (c *Cache) Snapshot() []*Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Result, 0, len(c.results))
	for _, res := range c.results {
		out = append(out, res)
	}
	return out
}
