package scannerimpl

import (
	"context"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/graph"
	"github.com/hashfeed/hashfeed/internal/scanner"
	"github.com/hashfeed/hashfeed/pkg/config"
	"github.com/hashfeed/hashfeed/pkg/logger"
	"github.com/hashfeed/hashfeed/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Graph  graph.Client
	Logger logger.Logger
	Config *config.Config
}

type ScannerImpl struct {
	Graph  graph.Client
	Logger logger.Logger
	Config *config.Config
}

func New(opts Opts) *ScannerImpl {
	return &ScannerImpl{
		Graph:  opts.Graph,
		Logger: opts.Logger.WithComponent("Scanner"),
		Config: opts.Config,
	}
}

var _ scanner.Client = (*ScannerImpl)(nil)

const defaultScanPageSize = 50

// ScanUntilFound walks src page by page removing found IDs from the
// outstanding target set. Scans are long-running, so each page fetch runs
// through retry-with-backoff; permanent upstream errors abort the scan with
// the partial result.
func (s *ScannerImpl) ScanUntilFound(ctx context.Context, targetIDs []string, src scanner.PageSource, limits scanner.Limits) (scanner.Result, error) {
	limits = s.withDefaults(limits)

	outstanding := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		if id != "" {
			outstanding[id] = true
		}
	}

	result := scanner.Result{Hits: make(map[string]domain.MediaItem, len(outstanding))}
	if len(outstanding) == 0 {
		result.Done = true
		return result, nil
	}

	var resume graph.Resume
	for result.Pages < limits.HardPageCap && result.Scanned < limits.MaxScan {
		page, err := s.fetchPage(ctx, src, limits.PageSize, resume)
		if err != nil {
			s.Logger.Error("Scan page fetch failed", "pages", result.Pages, "error", err)
			return result, err
		}
		result.Pages++

		for _, item := range page.Items {
			result.Scanned++
			if outstanding[item.ID] {
				result.Hits[item.ID] = item
				delete(outstanding, item.ID)
			}
		}

		if len(outstanding) == 0 {
			result.Done = true
			return result, nil
		}
		if page.NextAfter == "" && page.NextURL == "" {
			// End of pagination: the edge has nothing more to offer.
			result.Done = true
			return result, nil
		}
		resume = graph.Resume{After: page.NextAfter, NextURL: page.NextURL}
	}

	s.Logger.Info("Scan caps exhausted before all targets found",
		"outstanding", len(outstanding), "scanned", result.Scanned, "pages", result.Pages)
	return result, nil
}

func (s *ScannerImpl) fetchPage(ctx context.Context, src scanner.PageSource, quota int, resume graph.Resume) (graph.Page, error) {
	var page graph.Page
	err := retry.Do(ctx, s.Logger, "scan_page", func() error {
		p, err := src(ctx, quota, resume)
		if err != nil {
			if !graph.IsTransient(err) {
				return retry.Permanent(err)
			}
			return err
		}
		page = p
		return nil
	}, retry.DefaultConfig())
	return page, err
}

func (s *ScannerImpl) withDefaults(limits scanner.Limits) scanner.Limits {
	if limits.MaxScan <= 0 {
		limits.MaxScan = s.Config.Limits.MaxScanItems
	}
	if limits.HardPageCap <= 0 {
		limits.HardPageCap = s.Config.Limits.HardPageCap
	}
	if limits.PageSize <= 0 {
		limits.PageSize = defaultScanPageSize
	}
	return limits
}

// HashtagSource adapts one hashtag edge to a PageSource.
func (s *ScannerImpl) HashtagSource(hashtagID string, edge domain.EdgeKind) scanner.PageSource {
	return func(ctx context.Context, quota int, resume graph.Resume) (graph.Page, error) {
		return s.Graph.HashtagMedia(ctx, hashtagID, edge, quota, resume)
	}
}

// MentionSource adapts the mention timeline to a PageSource.
func (s *ScannerImpl) MentionSource() scanner.PageSource {
	return func(ctx context.Context, quota int, resume graph.Resume) (graph.Page, error) {
		return s.Graph.MentionedMedia(ctx, quota, resume.After)
	}
}
