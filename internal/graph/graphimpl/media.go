package graphimpl

import (
	"context"
	"net/url"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/graph"
	"github.com/hashfeed/hashfeed/pkg/errors"
)

// MediaByID fetches a single media object and normalizes it.
func (g *GraphImpl) MediaByID(ctx context.Context, id string) (*domain.MediaItem, error) {
	if g.token == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("fields", mentionMediaFields)

	var node mediaNode
	if err := g.getJSON(ctx, g.endpoint("/"+id, q), &node); err != nil {
		return nil, err
	}
	item := node.normalize()
	return &item, nil
}

// OEmbed fetches embeddable metadata by permalink. Unlike the other
// operations this one errors on a missing token: the freshness cascade
// catches it and moves on to the next fallback.
func (g *GraphImpl) OEmbed(ctx context.Context, permalink string) (*graph.OEmbedResult, error) {
	if g.oembed == "" {
		return nil, errors.Wrap(errors.ErrNotConfigured, "oembed access token")
	}

	q := url.Values{}
	q.Set("url", permalink)
	q.Set("access_token", g.oembed)

	var result graph.OEmbedResult
	if err := g.getJSON(ctx, g.base+"/instagram_oembed?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
