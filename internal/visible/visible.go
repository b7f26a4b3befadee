package visible

import (
	"context"
	"errors"

	"github.com/hashfeed/hashfeed/internal/domain"
)

// Source selects which curated list a call operates on: there is one list for
// hashtag-sourced media and one for mention-sourced media.
type Source string

const (
	SourceHashtag Source = "hashtag"
	SourceMention Source = "mention"
)

var ErrNotFound = errors.New("visible record not found")

//go:generate go run go.uber.org/mock/mockgen -source=visible.go -destination=mocks/mock.go

// Store is the curator-maintained keyed-record store. Write replaces the
// whole list, matching the curation UI's save-everything semantics.
type Store interface {
	Read(ctx context.Context, source Source) ([]domain.VisibleRecord, error)
	Write(ctx context.Context, source Source, records []domain.VisibleRecord) error
	Get(ctx context.Context, source Source, id string) (*domain.VisibleRecord, error)
	Put(ctx context.Context, source Source, record domain.VisibleRecord) error
}
