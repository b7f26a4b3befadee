package feedimpl

import (
	"context"
	"testing"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePage_DedupAndOrdering(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"
	stub.tagIDs["beach"] = "200"
	stub.edgePages[edgeKey("100", domain.EdgeTop)] = []graph.Page{
		pageOf("a1", "", item("p1", "2024-07-03T10:00:00+0000"), item("p2", "2024-07-01T10:00:00+0000")),
	}
	stub.edgePages[edgeKey("100", domain.EdgeRecent)] = []graph.Page{
		pageOf("a2", "", item("p3", "2024-07-02T10:00:00+0000")),
	}
	// p1 shows up under both tags; only one copy may survive.
	stub.edgePages[edgeKey("200", domain.EdgeTop)] = []graph.Page{
		pageOf("b1", "", item("p1", "2024-07-03T10:00:00+0000"), item("p4", "2024-07-04T10:00:00+0000")),
	}

	f := newTestFeed(stub)
	items, bundle, err := f.MergePage(context.Background(), []string{"summer", "beach"}, 10, domain.NewCursorBundle())
	require.NoError(t, err)

	seen := map[string]int{}
	for _, it := range items {
		seen[it.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "item %s appears more than once", id)
	}
	assert.Len(t, items, 4)

	for i := 0; i+1 < len(items); i++ {
		assert.GreaterOrEqual(t, items[i].Timestamp, items[i+1].Timestamp,
			"items must be sorted newest first")
	}

	assert.Contains(t, bundle.Tags, "summer")
	assert.Contains(t, bundle.Tags, "beach")
}

func TestMergePage_SourceTagAssigned(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"
	stub.edgePages[edgeKey("100", domain.EdgeRecent)] = []graph.Page{
		pageOf("", "", item("p1", "2024-07-01T10:00:00+0000")),
	}

	f := newTestFeed(stub)
	items, _, err := f.MergePage(context.Background(), []string{"summer"}, 10, domain.NewCursorBundle())
	require.NoError(t, err)
	require.NotEmpty(t, items)
	for _, it := range items {
		assert.Equal(t, "summer", it.SourceTag)
	}
}

func TestMergePage_QuotaSplitAndConservation(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"

	f := newTestFeed(stub)
	_, _, err := f.MergePage(context.Background(), []string{"summer"}, 10, domain.NewCursorBundle())
	require.NoError(t, err)

	topQ := stub.quotas[edgeKey("100", domain.EdgeTop)]
	recQ := stub.quotas[edgeKey("100", domain.EdgeRecent)]
	require.Len(t, topQ, 1)
	require.Len(t, recQ, 1)
	// perTagQuota = ceil(10/1) = 10, halved ceil-biased toward top.
	assert.Equal(t, 10, topQ[0]+recQ[0])
	assert.GreaterOrEqual(t, topQ[0], recQ[0])
}

func TestMergePage_UnresolvableTagGetsSkipped(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["campA"] = "1"
	// campB has no upstream match: SearchHashtag yields "".

	f := newTestFeed(stub)
	_, _, err := f.MergePage(context.Background(), []string{"campA", "campB"}, 10, domain.NewCursorBundle())
	require.NoError(t, err)

	// Only campA's quota path runs, with the full ceil(10/1)=10 budget.
	total := 0
	for key, quotas := range stub.quotas {
		assert.Contains(t, key, "1|", "only campA's hashtag id may be queried")
		for _, q := range quotas {
			total += q
		}
	}
	assert.Equal(t, 10, total)
}

func TestMergePage_ZeroResolvedTags(t *testing.T) {
	stub := newStubGraph()

	f := newTestFeed(stub)
	items, bundle, err := f.MergePage(context.Background(), []string{"nope"}, 10, domain.NewCursorBundle())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, bundle.Empty())
	assert.Zero(t, stub.fetchCalls, "no edge may be queried when nothing resolves")
}

func TestMergePage_MissingCredentialsServesEmptyPage(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"

	f := newTestFeed(stub)
	f.Config.Graph.AccessToken = ""

	items, bundle, err := f.MergePage(context.Background(), []string{"summer"}, 10, domain.NewCursorBundle())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, bundle.Empty())
	assert.Zero(t, stub.searchCalls)
}

func TestMergePage_EmptyCursorResponseLatchesExhaustion(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"
	// Nonzero quota, three items, no continuation of either kind.
	stub.edgePages[edgeKey("100", domain.EdgeRecent)] = []graph.Page{
		pageOf("", "",
			item("p1", "2024-07-01T10:00:00+0000"),
			item("p2", "2024-07-02T10:00:00+0000"),
			item("p3", "2024-07-03T10:00:00+0000")),
	}
	stub.edgePages[edgeKey("100", domain.EdgeTop)] = []graph.Page{
		pageOf("topcursor", ""),
	}

	f := newTestFeed(stub)
	_, bundle, err := f.MergePage(context.Background(), []string{"summer"}, 10, domain.NewCursorBundle())
	require.NoError(t, err)

	cur := bundle.Tags["summer"]
	assert.True(t, cur.Recent.Exhausted)
	assert.False(t, cur.Top.Exhausted)
	assert.Equal(t, "topcursor", cur.Top.After)
}

func TestMergePage_ExhaustionIsMonotonic(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"
	stub.edgePages[edgeKey("100", domain.EdgeRecent)] = []graph.Page{pageOf("", "")}
	stub.edgePages[edgeKey("100", domain.EdgeTop)] = []graph.Page{
		pageOf("t1", ""),
		pageOf("t2", ""),
	}

	f := newTestFeed(stub)
	ctx := context.Background()

	_, bundle, err := f.MergePage(ctx, []string{"summer"}, 10, domain.NewCursorBundle())
	require.NoError(t, err)
	require.True(t, bundle.Tags["summer"].Recent.Exhausted)

	// Re-feeding the bundle must never flip the latch back.
	_, bundle2, err := f.MergePage(ctx, []string{"summer"}, 10, bundle)
	require.NoError(t, err)
	assert.True(t, bundle2.Tags["summer"].Recent.Exhausted)

	// The exhausted edge got quota 0 this round; the full budget flowed to
	// the live edge.
	recQ := stub.quotas[edgeKey("100", domain.EdgeRecent)]
	topQ := stub.quotas[edgeKey("100", domain.EdgeTop)]
	require.Len(t, recQ, 1, "exhausted edge must not be queried again")
	require.Len(t, topQ, 2)
	assert.Equal(t, 10, topQ[1])
}

func TestMergePage_BothEdgesExhaustedFetchesNothing(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"

	bundle := domain.NewCursorBundle()
	bundle.Tags["summer"] = domain.TagCursor{
		Top:    domain.EdgeCursorState{Exhausted: true},
		Recent: domain.EdgeCursorState{Exhausted: true},
	}

	f := newTestFeed(stub)
	items, next, err := f.MergePage(context.Background(), []string{"summer"}, 10, bundle)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, stub.fetchCalls)
	assert.True(t, next.Tags["summer"].Top.Exhausted)
	assert.True(t, next.Tags["summer"].Recent.Exhausted)
}

func TestMergePage_FailedEdgeDoesNotBlankPage(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"
	stub.edgeErr[edgeKey("100", domain.EdgeTop)] = &graph.UpstreamError{Status: 400, Code: 100, Message: "bad"}
	stub.edgePages[edgeKey("100", domain.EdgeRecent)] = []graph.Page{
		pageOf("r1", "", item("p1", "2024-07-01T10:00:00+0000")),
	}

	f := newTestFeed(stub)
	items, bundle, err := f.MergePage(context.Background(), []string{"summer"}, 10, domain.NewCursorBundle())
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// A failed edge is "no items, not exhausted" for the round.
	cur := bundle.Tags["summer"]
	assert.False(t, cur.Top.Exhausted)
	assert.Empty(t, cur.Top.After)
	assert.Equal(t, "r1", cur.Recent.After)
}

func TestMergePage_OrphanCursorTagsAreDropped(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"

	bundle := domain.NewCursorBundle()
	bundle.Tags["winter"] = domain.TagCursor{Top: domain.EdgeCursorState{After: "w1"}}

	f := newTestFeed(stub)
	_, next, err := f.MergePage(context.Background(), []string{"summer"}, 10, bundle)
	require.NoError(t, err)
	assert.NotContains(t, next.Tags, "winter")
	assert.Contains(t, next.Tags, "summer")
}

func TestMergePage_ResumePrefersNextURL(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"

	bundle := domain.NewCursorBundle()
	bundle.Tags["summer"] = domain.TagCursor{
		Top: domain.EdgeCursorState{After: "aft", NextURL: "https://upstream.example/next?page=2"},
	}

	f := newTestFeed(stub)
	_, _, err := f.MergePage(context.Background(), []string{"summer"}, 10, bundle)
	require.NoError(t, err)

	resumes := stub.resumes[edgeKey("100", domain.EdgeTop)]
	require.Len(t, resumes, 1)
	assert.Equal(t, "https://upstream.example/next?page=2", resumes[0].NextURL)
	assert.Equal(t, "aft", resumes[0].After)
}

func TestMergePage_TruncatesToPageLimit(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"
	stub.edgePages[edgeKey("100", domain.EdgeTop)] = []graph.Page{
		pageOf("t1", "",
			item("p1", "2024-07-05T10:00:00+0000"),
			item("p2", "2024-07-04T10:00:00+0000"),
			item("p3", "2024-07-03T10:00:00+0000")),
	}
	stub.edgePages[edgeKey("100", domain.EdgeRecent)] = []graph.Page{
		pageOf("r1", "",
			item("p4", "2024-07-02T10:00:00+0000"),
			item("p5", "2024-07-01T10:00:00+0000")),
	}

	f := newTestFeed(stub)
	items, _, err := f.MergePage(context.Background(), []string{"summer"}, 3, domain.NewCursorBundle())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "p3", items[2].ID)
}

func TestResolveTagID_CachedAfterFirstLookup(t *testing.T) {
	stub := newStubGraph()
	stub.tagIDs["summer"] = "100"

	f := newTestFeed(stub)
	ctx := context.Background()

	_, _, err := f.MergePage(ctx, []string{"summer"}, 5, domain.NewCursorBundle())
	require.NoError(t, err)
	_, _, err = f.MergePage(ctx, []string{"summer"}, 5, domain.NewCursorBundle())
	require.NoError(t, err)

	assert.Equal(t, 1, stub.searchCalls, "the tag-id mapping is immutable and cached per process")
}

func TestSplitQuota(t *testing.T) {
	fresh := domain.TagCursor{}
	top, rec := splitQuota(7, fresh)
	assert.Equal(t, 7, top+rec)
	assert.Equal(t, 4, top)

	top, rec = splitQuota(7, domain.TagCursor{Recent: domain.EdgeCursorState{Exhausted: true}})
	assert.Equal(t, 7, top)
	assert.Zero(t, rec)

	top, rec = splitQuota(7, domain.TagCursor{Top: domain.EdgeCursorState{Exhausted: true}})
	assert.Zero(t, top)
	assert.Equal(t, 7, rec)
}
