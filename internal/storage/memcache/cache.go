// Package memcache provides the in-memory TTL cache. All derived data is
// rebuilt from the mail source on a miss, so nothing here survives a restart
// and nothing needs to.
package memcache

import (
	"fmt"
	"sync"
	"time"

	"github.com/gmorrison/foliowatch/internal/interfaces"
)

// TTLs per data kind. Email bodies are immutable once received and get the
// longer TTL; derived aggregates follow the default.
const (
	TTLDerived = 30 * time.Minute // portfolios, changes, analysis
	TTLEmail   = 60 * time.Minute // raw email fetches
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a mutex-guarded map with per-entry expiry. Expired entries are
// dropped lazily on read.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Key builds the canonical (operation, date) cache key.
func Key(operation, date string) string {
	return fmt.Sprintf("%s:%s", operation, date)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) Clear(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache) ClearAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of entries, including any not yet lazily expired.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ interfaces.Cache = (*Cache)(nil)
