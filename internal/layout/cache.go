package layout

import (
	"sync"

	"rosgen/internal/types"
)

type cacheEntry struct {
	info typeInfo
	err  *LayoutError
}

type cache struct {
	mu     sync.RWMutex
	byType map[types.TypeID]cacheEntry
}

func newCache() *cache {
	return &cache{byType: make(map[types.TypeID]cacheEntry, 256)}
}

func (c *cache) get(id types.TypeID) (cacheEntry, bool) {
	if c == nil {
		return cacheEntry{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.byType[id]
	return l, ok
}

func (c *cache) put(id types.TypeID, entry cacheEntry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.byType[id] = entry
	c.mu.Unlock()
}
