package cache

import "sync"

// TagIDCache maps tag strings to their upstream numeric IDs. The mapping is
// immutable upstream data, so entries are write-once for the process lifetime
// and never invalidated.
type TagIDCache struct {
	mu  sync.RWMutex
	ids map[string]string
}

func NewTagIDCache() *TagIDCache {
	return &TagIDCache{ids: make(map[string]string)}
}

func (c *TagIDCache) Get(tag string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[tag]
	return id, ok
}

// Put stores a resolved ID. Empty IDs are not stored: an unresolved tag must
// stay retryable on the next request.
func (c *TagIDCache) Put(tag, id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.ids[tag]; !exists {
		c.ids[tag] = id
	}
}
