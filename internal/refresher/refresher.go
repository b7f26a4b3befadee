package refresher

import "context"

// Client keeps the curated lists' media snapshots fresh in the background.
type Client interface {
	// RefreshVisible re-resolves every visible record's media URLs once and
	// rewrites the stores' denormalized snapshots.
	RefreshVisible(ctx context.Context) error

	// ScheduleRefresh runs RefreshVisible on the configured interval until
	// ctx is cancelled.
	ScheduleRefresh(ctx context.Context) error
}
