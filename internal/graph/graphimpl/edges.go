package graphimpl

import (
	"context"
	"net/url"
	"strconv"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/graph"
)

const hashtagMediaFields = "id,media_type,media_url,permalink,caption,timestamp,children{id,media_type,media_url}"
const mentionMediaFields = "id,media_type,media_url,thumbnail_url,permalink,caption,timestamp,username,children{id,media_type,media_url}"

// SearchHashtag maps a tag to its upstream numeric ID. A tag with no match
// upstream yields ("", nil): callers skip the tag for this request.
func (g *GraphImpl) SearchHashtag(ctx context.Context, tag string) (string, error) {
	if g.token == "" || g.userID == "" {
		return "", nil
	}

	q := url.Values{}
	q.Set("user_id", g.userID)
	q.Set("q", tag)

	var resp searchResponse
	if err := g.getJSON(ctx, g.endpoint("/ig_hashtag_search", q), &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		g.logger.Info("No hashtag found upstream", "tag", tag)
		return "", nil
	}
	return resp.Data[0].ID, nil
}

// HashtagMedia fetches one page of a hashtag edge. A resume NextURL is used
// verbatim: the upstream full-URL cursor is authoritative and may encode
// parameters the caller cannot reconstruct.
func (g *GraphImpl) HashtagMedia(ctx context.Context, hashtagID string, edge domain.EdgeKind, quota int, resume graph.Resume) (graph.Page, error) {
	if g.token == "" || g.userID == "" {
		return graph.Page{}, nil
	}

	target := resume.NextURL
	if target == "" {
		q := url.Values{}
		q.Set("user_id", g.userID)
		q.Set("fields", hashtagMediaFields)
		q.Set("limit", strconv.Itoa(quota))
		if resume.After != "" {
			q.Set("after", resume.After)
		}
		target = g.endpoint("/"+hashtagID+"/"+string(edge), q)
	}

	var resp edgeResponse
	if err := g.getJSON(ctx, target, &resp); err != nil {
		return graph.Page{}, err
	}
	return resp.toPage(), nil
}

// MentionedMedia fetches one page of the business account's mention timeline.
func (g *GraphImpl) MentionedMedia(ctx context.Context, quota int, after string) (graph.Page, error) {
	if g.token == "" || g.userID == "" {
		return graph.Page{}, nil
	}

	q := url.Values{}
	q.Set("fields", mentionMediaFields)
	q.Set("limit", strconv.Itoa(quota))
	if after != "" {
		q.Set("after", after)
	}

	var resp edgeResponse
	if err := g.getJSON(ctx, g.endpoint("/"+g.userID+"/tags", q), &resp); err != nil {
		return graph.Page{}, err
	}
	return resp.toPage(), nil
}
