package mediacache

import (
	"context"
	"errors"
	"time"

	"github.com/hashfeed/hashfeed/internal/domain"
)

var ErrNotFound = errors.New("media cache record not found")

//go:generate go run go.uber.org/mock/mockgen -source=mediacache.go -destination=mocks/mock.go

// Repository persists resolved media URL pairs so the freshness cascade's
// local fallback survives restarts.
type Repository interface {
	// Get returns the record for mediaID regardless of freshness; the caller
	// decides whether an expired row is still useful as a fallback.
	Get(ctx context.Context, mediaID string) (*domain.CachedMediaRecord, error)

	// Upsert stores or overwrites the record for its media ID.
	Upsert(ctx context.Context, record domain.CachedMediaRecord) error

	// CleanupExpired deletes rows whose expiry is older than the cutoff.
	CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}
