package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ResultCache memoizes idempotent upstream calls for a short TTL. Concurrent
// calls with an identical key during the in-flight window share one
// computation through the singleflight group instead of issuing duplicates.
// Instances are injected explicitly so tests get isolated state.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]resultEntry
	group   singleflight.Group
}

type resultEntry struct {
	value     any
	expiresAt time.Time
}

func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[string]resultEntry)}
}

// GetOrCompute returns the cached value for key or computes it via factory.
// Errors are never cached: a failed factory leaves the slot empty so the next
// caller retries.
func (c *ResultCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, factory func(ctx context.Context) (any, error)) (any, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.value, nil
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// A waiter may arrive just after the winner stored the result.
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && time.Now().Before(entry.expiresAt) {
			return entry.value, nil
		}

		v, err := factory(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = resultEntry{value: v, expiresAt: time.Now().Add(ttl)}
		c.mu.Unlock()
		return v, nil
	})
	return value, err
}

// Len is a test hook.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
