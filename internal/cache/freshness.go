package cache

import (
	"sync"
	"time"

	"github.com/hashfeed/hashfeed/internal/domain"
)

// FreshnessCache keeps recently resolved media URL pairs in memory so repeat
// resolutions inside the expiry margin skip the upstream round trip. The
// cache is size-bounded: when full, the entry closest to expiry is dropped.
type FreshnessCache struct {
	mu      sync.Mutex
	records map[string]domain.CachedMediaRecord
	max     int
}

func NewFreshnessCache(max int) *FreshnessCache {
	if max <= 0 {
		max = 2048
	}
	return &FreshnessCache{records: make(map[string]domain.CachedMediaRecord), max: max}
}

// Get returns the record for mediaID if it is still fresh.
func (c *FreshnessCache) Get(mediaID string) (domain.CachedMediaRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[mediaID]
	if !ok || !rec.Fresh(time.Now()) {
		return domain.CachedMediaRecord{}, false
	}
	return rec, true
}

// Put stores or overwrites a record. Stale entries are never proactively
// evicted; they are superseded on the next successful resolution or dropped
// when the cache is full.
func (c *FreshnessCache) Put(rec domain.CachedMediaRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.records[rec.MediaID]; !exists && len(c.records) >= c.max {
		c.evictSoonest()
	}
	c.records[rec.MediaID] = rec
}

func (c *FreshnessCache) evictSoonest() {
	var victim string
	var soonest time.Time
	for id, rec := range c.records {
		if victim == "" || rec.ExpiresAt.Before(soonest) {
			victim = id
			soonest = rec.ExpiresAt
		}
	}
	if victim != "" {
		delete(c.records, victim)
	}
}
