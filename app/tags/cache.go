// Package tags generates short descriptive tags for news headlines
// through an external generation API and caches the results for the
// lifetime of the process.
package tags

import (
	"sync"
)

// Cache maps an item link to its generated tags. A key, once set, is
// never generated again until the next Clear, even when the stored
// list is empty. Shared across concurrent requests.
type Cache struct {
	entries map[string][]string
	mu      sync.RWMutex
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string][]string),
	}
}

func (c *Cache) Get(key string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tags, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	tagsCopy := make([]string, len(tags))
	copy(tagsCopy, tags)
	return tagsCopy, true
}

func (c *Cache) Set(key string, tags []string) {
	tagsCopy := make([]string, len(tags))
	copy(tagsCopy, tags)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = tagsCopy
}

// Clear drops all entries. Called once at startup so no tags survive
// a restart.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]string)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
