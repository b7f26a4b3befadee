package feedimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashfeed/hashfeed/internal/domain"
)

type cachedPage struct {
	items []domain.MediaItem
	token string
}

// MergePageToken wraps MergePage for stateless HTTP callers: the cursor
// bundle travels as an opaque base64 token, and near-simultaneous identical
// requests share one merge round through the page cache.
func (f *FeedImpl) MergePageToken(ctx context.Context, tags []string, pageLimit int, token string) ([]domain.MediaItem, string, error) {
	key := fmt.Sprintf("merge:%s:%d:%s", strings.Join(uniqueTags(tags), ","), pageLimit, token)

	value, err := f.Pages.GetOrCompute(ctx, key, f.Config.Limits.PageCacheTTL, func(ctx context.Context) (any, error) {
		items, next, err := f.MergePage(ctx, tags, pageLimit, domain.DecodeCursorBundle(token))
		if err != nil {
			return nil, err
		}
		return cachedPage{items: items, token: next.Encode()}, nil
	})
	if err != nil {
		return nil, "", err
	}

	page := value.(cachedPage)
	return page.items, page.token, nil
}

// MentionTimelinePage is the single-edge page fetch for the mention timeline.
func (f *FeedImpl) MentionTimelinePage(ctx context.Context, limit int, after string) ([]domain.MediaItem, string, error) {
	if limit <= 0 {
		return []domain.MediaItem{}, "", nil
	}

	key := fmt.Sprintf("mentions:%d:%s", limit, after)
	value, err := f.Pages.GetOrCompute(ctx, key, f.Config.Limits.PageCacheTTL, func(ctx context.Context) (any, error) {
		page, err := f.Graph.MentionedMedia(ctx, limit, after)
		if err != nil {
			return nil, err
		}
		return cachedPage{items: page.Items, token: page.NextAfter}, nil
	})
	if err != nil {
		return nil, "", err
	}

	page := value.(cachedPage)
	return page.items, page.token, nil
}
