package domain

import "time"

// VisibleRecord is one curator-approved entry of a visible list. Category and
// Products are curator-assigned and never come from upstream; Media is a
// denormalized snapshot of the last-known upstream fields, used as the seed
// for freshness resolution when upstream lookups fail.
type VisibleRecord struct {
	ID        string    `json:"id"`
	Category  string    `json:"category,omitempty"`
	Products  []string  `json:"products,omitempty"`
	Media     MediaItem `json:"media"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Seed builds the resolver seed for this record: the media snapshot with the
// record's identity and curator fields folded in.
func (r VisibleRecord) Seed() MediaItem {
	seed := r.Media
	if seed.ID == "" {
		seed.ID = r.ID
	}
	seed.Category = r.Category
	seed.Products = r.Products
	return seed
}

// CachedMediaRecord is a resolved URL pair for one media ID, with an expiry
// kept shorter than the upstream CDN's actual TTL. Stale rows are overwritten
// on the next successful resolution, never proactively evicted.
type CachedMediaRecord struct {
	MediaID   string
	RawURL    string
	ThumbURL  string
	ExpiresAt time.Time
}

// Fresh reports whether the record has not yet expired.
func (r CachedMediaRecord) Fresh(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}
