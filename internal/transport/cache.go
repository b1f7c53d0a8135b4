package transport

import (
	"sync"
	"time"

	"cephlog-mcp/internal/models"
)

// ResponseCache memoizes search results by canonical query key. Expiry
// and eviction both happen lazily at lookup and insert time, never via
// a background timer. Eviction order is least recently inserted.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	order   []string // insertion order, oldest first
	max     int
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	result   *models.SearchResult
	inserted time.Time
}

// NewResponseCache creates a cache holding at most max results for at
// most ttl each.
func NewResponseCache(max int, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]cacheEntry),
		max:     max,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a shallow copy of the cached result for key, or false
// when the key is absent or expired. Expired entries are treated as
// absent; Put replaces them.
func (c *ResponseCache) Get(key string) (*models.SearchResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.inserted) > c.ttl {
		return nil, false
	}
	result := *entry.result
	return &result, true
}

// Put stores a result under key, dropping expired entries and then the
// oldest insertions until the capacity holds. Re-inserting an existing
// key refreshes its insertion time.
func (c *ResponseCache) Put(key string, result *models.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.removeFromOrder(key)
	}
	c.entries[key] = cacheEntry{result: result, inserted: c.now()}
	c.order = append(c.order, key)

	c.dropExpired()
	for len(c.entries) > c.max && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len reports the number of live entries, counting expired ones that
// have not been lazily dropped yet.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ResponseCache) dropExpired() {
	now := c.now()
	kept := c.order[:0]
	for _, key := range c.order {
		entry, ok := c.entries[key]
		if !ok {
			continue
		}
		if now.Sub(entry.inserted) > c.ttl {
			delete(c.entries, key)
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
}

func (c *ResponseCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
