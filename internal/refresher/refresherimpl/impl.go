package refresherimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/hashfeed/hashfeed/internal/alert"
	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/refresher"
	"github.com/hashfeed/hashfeed/internal/resolver"
	"github.com/hashfeed/hashfeed/internal/scanner"
	"github.com/hashfeed/hashfeed/internal/visible"
	"github.com/hashfeed/hashfeed/pkg/config"
	"github.com/hashfeed/hashfeed/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Resolver resolver.Client
	Scanner  scanner.Client
	Visible  visible.Store
	Alerter  alert.Client
	Logger   logger.Logger
	Config   *config.Config
}

type RefresherImpl struct {
	Resolver resolver.Client
	Scanner  scanner.Client
	Visible  visible.Store
	Alerter  alert.Client
	Logger   logger.Logger
	Config   *config.Config
}

func New(opts Opts) *RefresherImpl {
	return &RefresherImpl{
		Resolver: opts.Resolver,
		Scanner:  opts.Scanner,
		Visible:  opts.Visible,
		Alerter:  opts.Alerter,
		Logger:   opts.Logger.WithComponent("Refresher"),
		Config:   opts.Config,
	}
}

var _ refresher.Client = (*RefresherImpl)(nil)

// RefreshVisible re-resolves both curated lists. A record that fails to
// resolve keeps its previous snapshot; resolution failure is "temporarily
// unavailable", not a deletion signal.
func (r *RefresherImpl) RefreshVisible(ctx context.Context) error {
	var firstErr error
	for _, source := range []visible.Source{visible.SourceHashtag, visible.SourceMention} {
		if err := r.refreshList(ctx, source); err != nil {
			r.Logger.Error("Failed to refresh visible list", "source", source, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *RefresherImpl) refreshList(ctx context.Context, source visible.Source) error {
	records, err := r.Visible.Read(ctx, source)
	if err != nil {
		return fmt.Errorf("read visible list %s: %w", source, err)
	}
	if len(records) == 0 {
		return nil
	}

	seeds := make([]domain.MediaItem, 0, len(records))
	for _, rec := range records {
		seeds = append(seeds, rec.Seed())
	}

	resolved := r.Resolver.ResolveMany(ctx, seeds, r.Config.Limits.ResolveConcurrency)
	byID := make(map[string]domain.MediaItem, len(resolved))
	for _, item := range resolved {
		byID[item.ID] = item
	}

	if source == visible.SourceMention {
		for id, item := range r.rediscoverMentions(ctx, records, byID) {
			byID[id] = item
		}
	}

	updated := 0
	now := time.Now()
	for i, rec := range records {
		item, ok := byID[rec.ID]
		if !ok {
			continue
		}
		records[i].Media = item
		records[i].UpdatedAt = now
		updated++
	}

	if err := r.Visible.Write(ctx, source, records); err != nil {
		return fmt.Errorf("write visible list %s: %w", source, err)
	}

	r.Logger.Info("Visible list refreshed", "source", source, "records", len(records), "updated", updated)
	return nil
}

// rediscoverMentions scans the mention timeline for records the cascade could
// not resolve. A timeline hit carries a fresh media URL and becomes the new
// snapshot; a partial scan just leaves the remaining records untouched.
func (r *RefresherImpl) rediscoverMentions(ctx context.Context, records []domain.VisibleRecord, byID map[string]domain.MediaItem) map[string]domain.MediaItem {
	var missing []string
	for _, rec := range records {
		if _, ok := byID[rec.ID]; !ok {
			missing = append(missing, rec.ID)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	result, err := r.Scanner.ScanUntilFound(ctx, missing, r.Scanner.MentionSource(), scanner.Limits{})
	if err != nil {
		r.Logger.Warn("Mention rediscovery scan failed", "missing", len(missing), "error", err)
		return nil
	}

	r.Logger.Info("Mention rediscovery scan finished",
		"missing", len(missing), "found", len(result.Hits), "scanned", result.Scanned, "done", result.Done)
	return result.Hits
}

// ScheduleRefresh sets up the periodic revalidation job.
func (r *RefresherImpl) ScheduleRefresh(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create refresh scheduler: %w", err)
	}

	interval := r.Config.Curation.RefreshInterval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				r.Logger.Info("Context cancelled, stopping visible refresh job")
				return
			}

			taskCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
			defer cancel()

			r.Logger.Info("Starting scheduled visible list refresh")
			if err := r.RefreshVisible(taskCtx); err != nil {
				r.Alerter.Notify("Visible list refresh failed: " + err.Error())
				return
			}
			r.Logger.Info("Scheduled visible list refresh completed")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule visible refresh: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		r.Logger.Info("Stopping refresh scheduler")
		if err := scheduler.Shutdown(); err != nil {
			r.Logger.Error("Failed to shut down refresh scheduler", "error", err)
		}
	}()

	return nil
}
