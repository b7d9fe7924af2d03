package enrichment

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long enrichment results stay reusable before a
// source is consulted again.
const DefaultCacheTTL = 24 * time.Hour

type cacheEntry struct {
	results   []Result
	expiresAt time.Time
}

// Cache remembers enrichment results per email so repeated passes over the
// same contact set do not re-spend API budget.
type Cache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	mutex   sync.RWMutex
}

// NewCache creates a cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached results for an email, dropping expired entries.
func (c *Cache) Get(email string) ([]Result, bool) {
	c.mutex.RLock()
	entry, ok := c.entries[email]
	c.mutex.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mutex.Lock()
		delete(c.entries, email)
		c.mutex.Unlock()
		return nil, false
	}
	return entry.results, true
}

// Set caches the results applied to an email.
func (c *Cache) Set(email string, results []Result) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[email] = cacheEntry{
		results:   results,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Size returns the number of cached emails.
func (c *Cache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// Clear drops every cache entry.
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = make(map[string]cacheEntry)
}
