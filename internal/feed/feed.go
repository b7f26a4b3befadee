package feed

import (
	"context"

	"github.com/hashfeed/hashfeed/internal/domain"
)

// Client merges the independently-paginated upstream edges into single
// chronologically ordered, deduplicated pages.
type Client interface {
	// MergePage drives one merge round across tags × {top, recent} edges.
	// The returned bundle resumes pagination on the next call.
	MergePage(ctx context.Context, tags []string, pageLimit int, bundle domain.CursorBundle) ([]domain.MediaItem, domain.CursorBundle, error)

	// MergePageToken is the transport variant: the bundle travels as an
	// opaque base64 token, and identical requests inside a short window are
	// served from the page cache.
	MergePageToken(ctx context.Context, tags []string, pageLimit int, token string) ([]domain.MediaItem, string, error)

	// MentionTimelinePage is the single-edge equivalent for the mention
	// timeline.
	MentionTimelinePage(ctx context.Context, limit int, after string) ([]domain.MediaItem, string, error)
}
