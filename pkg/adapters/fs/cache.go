package fs

import (
	"sync"
	"time"
)

// cacheEntry is the last content read from or written to an entry file,
// tagged with the file's modification time and size at that moment.
type cacheEntry struct {
	data    []byte
	modTime time.Time
	size    int64
}

// cache keeps recently used entry payloads so repeated loads of an unchanged
// file skip the read. Freshness is decided by mtime and size.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newCache() *cache {
	return &cache{entries: make(map[string]cacheEntry)}
}

// Get returns a copy of the cached payload for key if it is still fresh.
func (c *cache) Get(key string, modTime time.Time, size int64) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.modTime.Equal(modTime) || entry.size != size {
		return nil, false
	}
	return append([]byte(nil), entry.data...), true
}

// Set records the payload observed for key.
func (c *cache) Set(key string, data []byte, modTime time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		data:    append([]byte(nil), data...),
		modTime: modTime,
		size:    int64(len(data)),
	}
}

// Delete drops key from the cache.
func (c *cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of cached entries.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
