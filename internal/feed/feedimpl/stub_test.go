package feedimpl

import (
	"context"
	"sync"
	"time"

	"github.com/hashfeed/hashfeed/internal/cache"
	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/graph"
	"github.com/hashfeed/hashfeed/pkg/config"
	"github.com/hashfeed/hashfeed/pkg/logger"
)

// stubGraph is a scriptable upstream. Edge pages are keyed by
// "<hashtagID>|<edge>" and served in order, one per call.
type stubGraph struct {
	mu sync.Mutex

	tagIDs    map[string]string
	searchErr map[string]error

	edgePages map[string][]graph.Page
	edgeErr   map[string]error
	edgeIdx   map[string]int

	mentionPage graph.Page

	quotas       map[string][]int
	resumes      map[string][]graph.Resume
	searchCalls  int
	fetchCalls   int
	mentionCalls int
}

func newStubGraph() *stubGraph {
	return &stubGraph{
		tagIDs:    map[string]string{},
		searchErr: map[string]error{},
		edgePages: map[string][]graph.Page{},
		edgeErr:   map[string]error{},
		edgeIdx:   map[string]int{},
		quotas:    map[string][]int{},
		resumes:   map[string][]graph.Resume{},
	}
}

func edgeKey(hashtagID string, edge domain.EdgeKind) string {
	return hashtagID + "|" + string(edge)
}

func (s *stubGraph) SearchHashtag(_ context.Context, tag string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++
	if err := s.searchErr[tag]; err != nil {
		return "", err
	}
	return s.tagIDs[tag], nil
}

func (s *stubGraph) HashtagMedia(_ context.Context, hashtagID string, edge domain.EdgeKind, quota int, resume graph.Resume) (graph.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := edgeKey(hashtagID, edge)
	s.fetchCalls++
	s.quotas[key] = append(s.quotas[key], quota)
	s.resumes[key] = append(s.resumes[key], resume)

	if err := s.edgeErr[key]; err != nil {
		return graph.Page{}, err
	}
	pages := s.edgePages[key]
	idx := s.edgeIdx[key]
	s.edgeIdx[key]++
	if idx >= len(pages) {
		return graph.Page{}, nil
	}
	return pages[idx], nil
}

func (s *stubGraph) MentionedMedia(_ context.Context, _ int, _ string) (graph.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mentionCalls++
	return s.mentionPage, nil
}

func (s *stubGraph) MediaByID(context.Context, string) (*domain.MediaItem, error) {
	return nil, nil
}

func (s *stubGraph) OEmbed(context.Context, string) (*graph.OEmbedResult, error) {
	return nil, nil
}

var _ graph.Client = (*stubGraph)(nil)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Graph.AccessToken = "test-token"
	cfg.Graph.UserID = "17841400000000000"
	cfg.Limits.PageCacheTTL = time.Minute
	return cfg
}

func newTestFeed(stub *stubGraph) *FeedImpl {
	return &FeedImpl{
		Graph:  stub,
		TagIDs: cache.NewTagIDCache(),
		Pages:  cache.NewResultCache(),
		Logger: logger.NewNop(),
		Config: testConfig(),
	}
}

func item(id, ts string) domain.MediaItem {
	return domain.MediaItem{
		ID:        id,
		MediaURL:  "https://cdn.example/" + id + ".jpg",
		MediaType: domain.MediaTypeImage,
		Timestamp: ts,
	}
}

func pageOf(nextAfter, nextURL string, items ...domain.MediaItem) graph.Page {
	return graph.Page{Items: items, NextAfter: nextAfter, NextURL: nextURL}
}
