package scanner

import (
	"context"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/graph"
)

// PageSource fetches one page of a single edge's pagination sequence.
type PageSource func(ctx context.Context, quota int, resume graph.Resume) (graph.Page, error)

// Limits bounds a scan. MaxScan caps total items looked at, HardPageCap caps
// pages fetched, PageSize is the per-page quota requested upstream.
type Limits struct {
	MaxScan     int
	HardPageCap int
	PageSize    int
}

// Result reports a scan's outcome. Done is true iff every target was found
// or the edge signaled end-of-pagination; Done=false with caps exhausted
// means "give up, retry with a fresh scan or accept partial hits".
type Result struct {
	Hits    map[string]domain.MediaItem
	Scanned int
	Pages   int
	Done    bool
}

// Client walks a single edge exhaustively looking for specific media IDs,
// stopping early the moment every target is found.
type Client interface {
	ScanUntilFound(ctx context.Context, targetIDs []string, src PageSource, limits Limits) (Result, error)

	// HashtagSource and MentionSource adapt the graph edges to PageSource.
	HashtagSource(hashtagID string, edge domain.EdgeKind) PageSource
	MentionSource() PageSource
}
