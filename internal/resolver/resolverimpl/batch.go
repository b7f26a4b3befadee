package resolverimpl

import (
	"context"
	"sync"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/panjf2000/ants/v2"
)

// ResolveMany enriches seeds over an ants pool bounded by concurrency.
// Seeds that resolve to nil are silently dropped: this is a best-effort
// enrichment pass, not a transactional batch.
func (r *ResolverImpl) ResolveMany(ctx context.Context, seeds []domain.MediaItem, concurrency int) []domain.MediaItem {
	if len(seeds) == 0 {
		return nil
	}
	if concurrency <= 0 {
		concurrency = r.Config.Limits.ResolveConcurrency
	}
	if concurrency <= 0 {
		concurrency = 5
	}

	pool, err := ants.NewPool(concurrency, ants.WithPreAlloc(true))
	if err != nil {
		r.Logger.Error("Failed to create resolve pool, falling back to sequential", "error", err)
		return r.resolveSequential(ctx, seeds)
	}
	defer pool.Release()

	resolved := make([]*domain.MediaItem, len(seeds))
	var wg sync.WaitGroup

	for i, seed := range seeds {
		wg.Add(1)
		i, seed := i, seed
		if err := pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
			default:
				resolved[i] = r.ResolveOne(ctx, seed)
			}
		}); err != nil {
			wg.Done()
			r.Logger.Error("Failed to submit resolve job", "media_id", seed.ID, "error", err)
		}
	}
	wg.Wait()

	out := make([]domain.MediaItem, 0, len(seeds))
	for _, item := range resolved {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

func (r *ResolverImpl) resolveSequential(ctx context.Context, seeds []domain.MediaItem) []domain.MediaItem {
	out := make([]domain.MediaItem, 0, len(seeds))
	for _, seed := range seeds {
		if item := r.ResolveOne(ctx, seed); item != nil {
			out = append(out, *item)
		}
	}
	return out
}
