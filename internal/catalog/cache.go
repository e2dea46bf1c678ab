package catalog

import (
	"strings"
	"sync"
	"time"
)

// searchCacheTTL is how long a cached result list stays fresh. Provider
// catalogues change slowly; five minutes trades staleness for quota.
const searchCacheTTL = 5 * time.Minute

// searchCache is the aggregator-owned query cache.
//
// # Concurrency
//
// Entries are guarded by a mutex so concurrent requests never race on
// the map. Two requests that miss the same key may both query the
// providers and both store: the last write wins, which is harmless —
// staleness is acceptable here, torn data is not.
//
// Expiry is lazy: a stale entry is evicted on the next lookup for its
// key, there is no background sweep.
type searchCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]searchCacheEntry
}

type searchCacheEntry struct {
	books    []Book
	storedAt time.Time
}

// newSearchCache builds a cache with an injected clock so tests can
// advance time deterministically.
func newSearchCache(ttl time.Duration, now func() time.Time) *searchCache {
	return &searchCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]searchCacheEntry),
	}
}

// cacheKey normalizes a query into its cache key. Only the key is
// lowercased — the provider calls keep the original casing.
func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func (c *searchCache) get(key string) ([]Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.books, true
}

func (c *searchCache) set(key string, books []Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = searchCacheEntry{books: books, storedAt: c.now()}
}

// purge drops every entry regardless of age.
func (c *searchCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]searchCacheEntry)
}
