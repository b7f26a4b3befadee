package feedimpl

import (
	"context"
	"sort"
	"sync"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/graph"
)

const minPerTagQuota = 3

// MergePage runs one merge round: resolve tags, fetch both hashtag edges of
// every resolved tag concurrently under per-edge quotas, then merge,
// deduplicate, sort and truncate. The returned bundle carries the updated
// per-edge cursor state for every requested tag; tags present in the input
// bundle but absent from the request are dropped.
func (f *FeedImpl) MergePage(ctx context.Context, tags []string, pageLimit int, bundle domain.CursorBundle) ([]domain.MediaItem, domain.CursorBundle, error) {
	next := domain.NewCursorBundle()

	// A misconfigured deployment degrades to "no content", not a crash.
	if !f.configured() {
		f.Logger.Warn("Graph credentials missing, serving empty page")
		return []domain.MediaItem{}, next, nil
	}

	tags = uniqueTags(tags)
	if pageLimit <= 0 || len(tags) == 0 {
		return []domain.MediaItem{}, next, nil
	}

	resolved := f.resolveTags(ctx, tags)
	if len(resolved) == 0 {
		return []domain.MediaItem{}, next, nil
	}

	perTag := ceilDiv(pageLimit, len(resolved))
	if perTag < minPerTagQuota {
		perTag = minPerTagQuota
	}

	type tagRound struct {
		items  []domain.MediaItem
		cursor domain.TagCursor
	}
	rounds := make(map[string]tagRound, len(resolved))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for tag, hashtagID := range resolved {
		wg.Add(1)
		go func(tag, hashtagID string) {
			defer wg.Done()

			prior := bundle.Tags[tag]
			qTop, qRecent := splitQuota(perTag, prior)

			round := tagRound{cursor: prior}
			round.cursor.Top, round.items = f.fetchEdge(ctx, tag, hashtagID, domain.EdgeTop, qTop, prior.Top, round.items)
			round.cursor.Recent, round.items = f.fetchEdge(ctx, tag, hashtagID, domain.EdgeRecent, qRecent, prior.Recent, round.items)

			mu.Lock()
			rounds[tag] = round
			mu.Unlock()
		}(tag, hashtagID)
	}
	wg.Wait()

	var pool []domain.MediaItem
	for _, round := range rounds {
		pool = append(pool, round.items...)
	}
	items := dedupeByID(pool)

	// Upstream timestamps are ISO-8601, so lexicographic order is
	// chronological order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
	if len(items) > pageLimit {
		items = items[:pageLimit]
	}

	// The output bundle covers every requested tag, including tags that were
	// skipped this round, so their pagination state survives transient
	// resolution failures.
	for _, tag := range tags {
		if round, ok := rounds[tag]; ok {
			next.Tags[tag] = round.cursor
		} else if prior, ok := bundle.Tags[tag]; ok {
			next.Tags[tag] = prior
		}
	}

	return items, next, nil
}

// fetchEdge performs one quota-bounded page fetch of a single (tag, edge)
// pair and advances its cursor state. A failed fetch contributes no items and
// leaves the prior state untouched: one bad edge must not blank the page, and
// an error is not an end-of-data signal.
func (f *FeedImpl) fetchEdge(ctx context.Context, tag, hashtagID string, edge domain.EdgeKind, quota int, prior domain.EdgeCursorState, acc []domain.MediaItem) (domain.EdgeCursorState, []domain.MediaItem) {
	if quota <= 0 {
		return prior, acc
	}

	page, err := f.Graph.HashtagMedia(ctx, hashtagID, edge, quota, graph.Resume{
		After:   prior.After,
		NextURL: prior.NextURL,
	})
	if err != nil {
		f.Logger.Warn("Edge fetch failed", "tag", tag, "edge", edge, "error", err)
		return prior, acc
	}

	for i := range page.Items {
		page.Items[i].SourceTag = tag
	}
	acc = append(acc, page.Items...)

	state := domain.EdgeCursorState{After: page.NextAfter, NextURL: page.NextURL}
	// Nonzero quota with no continuation of either kind means the edge ran
	// dry. The latch is one-way: a previously exhausted edge stays exhausted.
	state.Exhausted = prior.Exhausted || (page.NextAfter == "" && page.NextURL == "")
	return state, acc
}

// splitQuota allocates a tag's round quota between its two edges. An
// exhausted edge gets nothing and routes its share to the live edge, so pages
// do not shrink toward zero once one edge runs dry before the other.
func splitQuota(perTag int, c domain.TagCursor) (top, recent int) {
	switch {
	case c.Top.Exhausted && c.Recent.Exhausted:
		return 0, 0
	case c.Top.Exhausted:
		return 0, perTag
	case c.Recent.Exhausted:
		return perTag, 0
	default:
		top = (perTag + 1) / 2
		return top, perTag - top
	}
}

// dedupeByID keeps one item per ID. Per-tag fetches complete in arbitrary
// order, so which duplicate survives is intentionally unspecified; ID
// uniqueness is the only guarantee.
func dedupeByID(items []domain.MediaItem) []domain.MediaItem {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, item := range items {
		if item.ID == "" || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}

func uniqueTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
