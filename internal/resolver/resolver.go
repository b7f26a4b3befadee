package resolver

import (
	"context"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/visible"
)

// Client repairs stale or missing media URLs through a cascading fallback
// chain: direct-by-ID lookup, then oEmbed by permalink, then the locally
// stored seed. A nil result means "temporarily unavailable", never "deleted".
type Client interface {
	// ResolveOne runs the cascade for one seed.
	ResolveOne(ctx context.Context, seed domain.MediaItem) *domain.MediaItem

	// ResolveByID loads the seed from the given visible list first. An ID
	// with no stored record still runs the cascade with a bare {id} seed.
	ResolveByID(ctx context.Context, id string, source visible.Source) *domain.MediaItem

	// ResolveMany runs ResolveOne over a bounded worker pool, dropping seeds
	// that do not resolve. Best-effort: not a transactional batch.
	ResolveMany(ctx context.Context, seeds []domain.MediaItem, concurrency int) []domain.MediaItem
}
