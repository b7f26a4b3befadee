package refresherimpl

import (
	"context"
	"testing"
	"time"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/scanner"
	"github.com/hashfeed/hashfeed/internal/visible"
	"github.com/hashfeed/hashfeed/pkg/config"
	"github.com/hashfeed/hashfeed/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	resolvable map[string]string // media ID -> fresh media URL
	seeds      []domain.MediaItem
}

func (s *stubResolver) ResolveOne(_ context.Context, seed domain.MediaItem) *domain.MediaItem {
	url, ok := s.resolvable[seed.ID]
	if !ok {
		return nil
	}
	item := seed
	item.MediaURL = url
	return &item
}

func (s *stubResolver) ResolveByID(ctx context.Context, id string, _ visible.Source) *domain.MediaItem {
	return s.ResolveOne(ctx, domain.MediaItem{ID: id})
}

func (s *stubResolver) ResolveMany(ctx context.Context, seeds []domain.MediaItem, _ int) []domain.MediaItem {
	s.seeds = append(s.seeds, seeds...)
	out := make([]domain.MediaItem, 0, len(seeds))
	for _, seed := range seeds {
		if item := s.ResolveOne(ctx, seed); item != nil {
			out = append(out, *item)
		}
	}
	return out
}

type stubStore struct {
	lists map[visible.Source][]domain.VisibleRecord
}

func newStubStore() *stubStore {
	return &stubStore{lists: map[visible.Source][]domain.VisibleRecord{}}
}

func (s *stubStore) Read(_ context.Context, source visible.Source) ([]domain.VisibleRecord, error) {
	return s.lists[source], nil
}

func (s *stubStore) Write(_ context.Context, source visible.Source, records []domain.VisibleRecord) error {
	s.lists[source] = records
	return nil
}

func (s *stubStore) Get(_ context.Context, source visible.Source, id string) (*domain.VisibleRecord, error) {
	for _, r := range s.lists[source] {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, visible.ErrNotFound
}

func (s *stubStore) Put(_ context.Context, source visible.Source, record domain.VisibleRecord) error {
	s.lists[source] = append(s.lists[source], record)
	return nil
}

type stubAlerter struct{ messages []string }

func (s *stubAlerter) Notify(msg string) { s.messages = append(s.messages, msg) }

// stubScanner reports the scripted timeline items as scan hits.
type stubScanner struct {
	timeline []domain.MediaItem
	targets  []string
}

func (s *stubScanner) ScanUntilFound(_ context.Context, targetIDs []string, _ scanner.PageSource, _ scanner.Limits) (scanner.Result, error) {
	s.targets = append(s.targets, targetIDs...)
	result := scanner.Result{Hits: map[string]domain.MediaItem{}, Done: true}
	wanted := map[string]bool{}
	for _, id := range targetIDs {
		wanted[id] = true
	}
	for _, item := range s.timeline {
		result.Scanned++
		if wanted[item.ID] {
			result.Hits[item.ID] = item
		}
	}
	return result, nil
}

func (s *stubScanner) HashtagSource(string, domain.EdgeKind) scanner.PageSource { return nil }
func (s *stubScanner) MentionSource() scanner.PageSource                        { return nil }

func newTestRefresher(res *stubResolver, store *stubStore) *RefresherImpl {
	cfg := &config.Config{}
	cfg.Limits.ResolveConcurrency = 2
	return &RefresherImpl{
		Resolver: res,
		Scanner:  &stubScanner{},
		Visible:  store,
		Alerter:  &stubAlerter{},
		Logger:   logger.NewNop(),
		Config:   cfg,
	}
}

func visibleRecord(id, mediaURL string) domain.VisibleRecord {
	return domain.VisibleRecord{
		ID:    id,
		Media: domain.MediaItem{ID: id, MediaURL: mediaURL},
	}
}

func TestRefreshVisible_UpdatesResolvedSnapshots(t *testing.T) {
	res := &stubResolver{resolvable: map[string]string{"a": "https://cdn/fresh-a.jpg"}}
	store := newStubStore()
	store.lists[visible.SourceHashtag] = []domain.VisibleRecord{visibleRecord("a", "https://cdn/stale-a.jpg")}
	r := newTestRefresher(res, store)

	require.NoError(t, r.RefreshVisible(context.Background()))

	got := store.lists[visible.SourceHashtag]
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn/fresh-a.jpg", got[0].Media.MediaURL)
	assert.WithinDuration(t, time.Now(), got[0].UpdatedAt, time.Minute)
}

func TestRefreshVisible_UnresolvableRecordKeepsPriorSnapshot(t *testing.T) {
	res := &stubResolver{resolvable: map[string]string{}}
	store := newStubStore()
	store.lists[visible.SourceMention] = []domain.VisibleRecord{visibleRecord("a", "https://cdn/stale-a.jpg")}
	r := newTestRefresher(res, store)

	require.NoError(t, r.RefreshVisible(context.Background()))

	got := store.lists[visible.SourceMention]
	require.Len(t, got, 1, "failure to resolve must never drop a curated record")
	assert.Equal(t, "https://cdn/stale-a.jpg", got[0].Media.MediaURL)
	assert.True(t, got[0].UpdatedAt.IsZero())
}

func TestRefreshVisible_RediscoversUnresolvableMentions(t *testing.T) {
	res := &stubResolver{resolvable: map[string]string{}}
	store := newStubStore()
	store.lists[visible.SourceMention] = []domain.VisibleRecord{visibleRecord("a", "https://cdn/stale-a.jpg")}
	r := newTestRefresher(res, store)
	sc := &stubScanner{timeline: []domain.MediaItem{
		{ID: "a", MediaURL: "https://cdn/rediscovered-a.jpg"},
	}}
	r.Scanner = sc

	require.NoError(t, r.RefreshVisible(context.Background()))

	assert.Equal(t, []string{"a"}, sc.targets)
	got := store.lists[visible.SourceMention]
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn/rediscovered-a.jpg", got[0].Media.MediaURL)
}

func TestRefreshVisible_HashtagListSkipsMentionScan(t *testing.T) {
	res := &stubResolver{resolvable: map[string]string{}}
	store := newStubStore()
	store.lists[visible.SourceHashtag] = []domain.VisibleRecord{visibleRecord("a", "https://cdn/stale-a.jpg")}
	r := newTestRefresher(res, store)
	sc := &stubScanner{timeline: []domain.MediaItem{
		{ID: "a", MediaURL: "https://cdn/rediscovered-a.jpg"},
	}}
	r.Scanner = sc

	require.NoError(t, r.RefreshVisible(context.Background()))

	assert.Empty(t, sc.targets, "hashtag records have no mention timeline to rediscover from")
	assert.Equal(t, "https://cdn/stale-a.jpg", store.lists[visible.SourceHashtag][0].Media.MediaURL)
}

func TestRefreshVisible_CoversBothSources(t *testing.T) {
	res := &stubResolver{resolvable: map[string]string{
		"h": "https://cdn/h.jpg",
		"m": "https://cdn/m.jpg",
	}}
	store := newStubStore()
	store.lists[visible.SourceHashtag] = []domain.VisibleRecord{visibleRecord("h", "")}
	store.lists[visible.SourceMention] = []domain.VisibleRecord{visibleRecord("m", "")}
	r := newTestRefresher(res, store)

	require.NoError(t, r.RefreshVisible(context.Background()))
	assert.Len(t, res.seeds, 2)
	assert.Equal(t, "https://cdn/h.jpg", store.lists[visible.SourceHashtag][0].Media.MediaURL)
	assert.Equal(t, "https://cdn/m.jpg", store.lists[visible.SourceMention][0].Media.MediaURL)
}
