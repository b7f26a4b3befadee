package graph

import (
	"context"

	"github.com/hashfeed/hashfeed/internal/domain"
)

// Page is one normalized page of an upstream edge. NextAfter and NextURL are
// both empty when the edge has no further data.
type Page struct {
	Items     []domain.MediaItem
	NextAfter string
	NextURL   string
}

// Resume identifies where to continue pagination. NextURL, when set, is the
// upstream's own continuation URL and is used verbatim in preference to
// rebuilding the query from After.
type Resume struct {
	After   string
	NextURL string
}

// OEmbedResult is the embeddable-post metadata returned by an oEmbed lookup.
// The upstream oEmbed endpoint does not return a stable media ID.
type OEmbedResult struct {
	ThumbnailURL string `json:"thumbnail_url"`
	AuthorName   string `json:"author_name"`
	Title        string `json:"title"`
}

// Client is the upstream social graph API surface the rest of the system
// depends on.
type Client interface {
	// SearchHashtag maps a tag string to its upstream numeric ID. A tag
	// unknown upstream yields ("", nil), not an error.
	SearchHashtag(ctx context.Context, tag string) (string, error)

	// HashtagMedia fetches one page of a hashtag edge.
	HashtagMedia(ctx context.Context, hashtagID string, edge domain.EdgeKind, quota int, resume Resume) (Page, error)

	// MentionedMedia fetches one page of the mention timeline.
	MentionedMedia(ctx context.Context, quota int, after string) (Page, error)

	// MediaByID fetches a single media object.
	MediaByID(ctx context.Context, id string) (*domain.MediaItem, error)

	// OEmbed fetches embeddable metadata by public permalink. Errors when no
	// oEmbed token is configured.
	OEmbed(ctx context.Context, permalink string) (*OEmbedResult, error)
}
