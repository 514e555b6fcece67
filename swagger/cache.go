package swagger

import (
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// responseCache keeps at most max rendered documents for a fixed TTL.
// Expired entries are dropped when they are looked up or when a new entry
// is stored; a full cache evicts the entry that expires first.
type responseCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	max   int
	items map[string]cacheEntry
	now   func() time.Time
}

func newResponseCache(ttl time.Duration, maxEntries int) *responseCache {
	if ttl <= 0 {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &responseCache{
		ttl:   ttl,
		max:   maxEntries,
		items: make(map[string]cacheEntry),
		now:   time.Now,
	}
}

// Get returns the cached value of key. A nil cache never hits.
func (c *responseCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return entry.data, true
}

// Set stores data under key.
func (c *responseCache) Set(key string, data []byte) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, entry := range c.items {
		if !now.Before(entry.expiresAt) {
			delete(c.items, k)
		}
	}

	if _, ok := c.items[key]; !ok && len(c.items) >= c.max {
		c.evictOldest()
	}

	c.items[key] = cacheEntry{data: data, expiresAt: now.Add(c.ttl)}
}

func (c *responseCache) evictOldest() {
	var (
		oldest string
		at     time.Time
	)
	for k, entry := range c.items {
		if oldest == "" || entry.expiresAt.Before(at) {
			oldest, at = k, entry.expiresAt
		}
	}
	delete(c.items, oldest)
}

// Len returns the number of stored entries, expired or not.
func (c *responseCache) Len() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func cacheKey(format, host string, schemes []string, tags string) string {
	return strings.Join([]string{format, host, strings.Join(schemes, ","), tags}, "|")
}
