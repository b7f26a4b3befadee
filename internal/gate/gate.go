package gate

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate bounds the number of in-flight upstream calls. Waiters queue in FIFO
// order and are released in arrival order when a slot frees; the queue itself
// is unbounded. It never fails except when the caller's context ends.
type Gate struct {
	sem *semaphore.Weighted
}

func New(limit int64) *Gate {
	if limit <= 0 {
		limit = 1
	}
	return &Gate{sem: semaphore.NewWeighted(limit)}
}

// Acquire blocks until a slot is free and returns the release function.
// The caller must invoke release exactly once.
func (g *Gate) Acquire(ctx context.Context) (func(), error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { g.sem.Release(1) }, nil
}

// TryAcquire grabs a slot without waiting. Used by tests to observe saturation.
func (g *Gate) TryAcquire() (func(), bool) {
	if !g.sem.TryAcquire(1) {
		return nil, false
	}
	return func() { g.sem.Release(1) }, true
}
