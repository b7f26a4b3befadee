package resolverimpl

import (
	"context"
	"errors"
	"time"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/repositories/mediacache"
	"github.com/hashfeed/hashfeed/internal/visible"
)

// stageOutcome records how one cascade stage went, so failures stay
// observable without riding on an exception side channel.
type stageOutcome struct {
	stage string
	item  *domain.MediaItem
	err   error
}

func (o stageOutcome) usable() bool {
	return o.err == nil && o.item.HasUsableURL()
}

// ResolveOne cascades through direct-by-ID, oEmbed-by-permalink and the
// locally stored seed, short-circuiting on the first stage that yields a
// usable media or thumbnail URL. Stage errors are logged and swallowed; only
// total exhaustion surfaces, as nil.
func (r *ResolverImpl) ResolveOne(ctx context.Context, seed domain.MediaItem) *domain.MediaItem {
	if seed.ID == "" {
		return nil
	}

	if cached, ok := r.cachedRecord(ctx, seed.ID); ok {
		item := seed
		item.MediaURL = cached.RawURL
		item.ThumbnailURL = cached.ThumbURL
		return &item
	}

	stages := []func(context.Context, domain.MediaItem) stageOutcome{
		r.stageDirect,
		r.stageOEmbed,
		r.stageLocal,
	}
	for _, stage := range stages {
		outcome := stage(ctx, seed)
		if outcome.usable() {
			if outcome.stage != "local" {
				r.remember(ctx, *outcome.item)
			}
			return outcome.item
		}
		if outcome.err != nil {
			r.Logger.Debug("Cascade stage failed", "stage", outcome.stage, "media_id", seed.ID, "error", outcome.err)
		}
	}

	r.Logger.Info("Media resolution exhausted", "media_id", seed.ID)
	return nil
}

var errNoUsableURL = errors.New("no usable url")

// stageDirect looks the media up by ID and folds the curator-assigned fields
// back in; those never come from upstream.
func (r *ResolverImpl) stageDirect(ctx context.Context, seed domain.MediaItem) stageOutcome {
	item, err := r.Graph.MediaByID(ctx, seed.ID)
	if err != nil {
		return stageOutcome{stage: "direct", err: err}
	}
	if item == nil || !item.HasUsableURL() {
		return stageOutcome{stage: "direct", err: errNoUsableURL}
	}

	if item.ID == "" {
		item.ID = seed.ID
	}
	item.Category = seed.Category
	item.Products = seed.Products
	item.SourceTag = seed.SourceTag
	if item.Username == "" {
		item.Username = seed.Username
	}
	return stageOutcome{stage: "direct", item: item}
}

// stageOEmbed resolves by permalink. The oEmbed endpoint returns no stable
// media ID, so the seed's own ID is substituted into the result.
func (r *ResolverImpl) stageOEmbed(ctx context.Context, seed domain.MediaItem) stageOutcome {
	if seed.Permalink == "" {
		return stageOutcome{stage: "oembed", err: errors.New("no permalink known")}
	}

	result, err := r.Graph.OEmbed(ctx, seed.Permalink)
	if err != nil {
		return stageOutcome{stage: "oembed", err: err}
	}
	if result.ThumbnailURL == "" {
		return stageOutcome{stage: "oembed", err: errNoUsableURL}
	}

	item := seed
	item.MediaURL = result.ThumbnailURL
	item.ThumbnailURL = result.ThumbnailURL
	if item.Username == "" {
		item.Username = result.AuthorName
	}
	return stageOutcome{stage: "oembed", item: &item}
}

// stageLocal falls back to the seed's own stored fields; the curator may have
// hand-entered a usable URL.
func (r *ResolverImpl) stageLocal(_ context.Context, seed domain.MediaItem) stageOutcome {
	if !seed.HasUsableURL() {
		return stageOutcome{stage: "local", err: errNoUsableURL}
	}
	item := seed
	return stageOutcome{stage: "local", item: &item}
}

// cachedRecord consults the in-memory freshness cache, then the persisted
// cache. Expired rows are ignored here; they are only overwritten on the next
// successful resolution.
func (r *ResolverImpl) cachedRecord(ctx context.Context, mediaID string) (domain.CachedMediaRecord, bool) {
	if rec, ok := r.Freshness.Get(mediaID); ok {
		return rec, true
	}
	rec, err := r.MediaRepo.Get(ctx, mediaID)
	if err != nil {
		if !errors.Is(err, mediacache.ErrNotFound) {
			r.Logger.Warn("Media cache lookup failed", "media_id", mediaID, "error", err)
		}
		return domain.CachedMediaRecord{}, false
	}
	if !rec.Fresh(time.Now()) {
		return domain.CachedMediaRecord{}, false
	}
	r.Freshness.Put(*rec)
	return *rec, true
}

// remember stores a freshly resolved URL pair with an expiry kept shorter
// than the upstream CDN's own TTL.
func (r *ResolverImpl) remember(ctx context.Context, item domain.MediaItem) {
	rec := domain.CachedMediaRecord{
		MediaID:   item.ID,
		RawURL:    item.MediaURL,
		ThumbURL:  item.ThumbnailURL,
		ExpiresAt: time.Now().Add(r.Config.Limits.MediaURLTTL),
	}
	r.Freshness.Put(rec)
	if err := r.MediaRepo.Upsert(ctx, rec); err != nil {
		r.Logger.Warn("Failed to persist media cache record", "media_id", item.ID, "error", err)
	}
}

// ResolveByID seeds the cascade from the visible list. A record found only by
// ID with no other fields degrades to a bare {id} seed.
func (r *ResolverImpl) ResolveByID(ctx context.Context, id string, source visible.Source) *domain.MediaItem {
	record, err := r.Visible.Get(ctx, source, id)
	if err != nil {
		if !errors.Is(err, visible.ErrNotFound) {
			r.Logger.Warn("Visible list lookup failed", "media_id", id, "error", err)
		}
		return r.ResolveOne(ctx, domain.MediaItem{ID: id})
	}
	return r.ResolveOne(ctx, record.Seed())
}
