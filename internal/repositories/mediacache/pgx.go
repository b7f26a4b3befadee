package mediacache

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/repositories"
	"github.com/hashfeed/hashfeed/pkg/logger"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("MediaCacheRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Get(ctx context.Context, mediaID string) (*domain.CachedMediaRecord, error) {
	query, args, err := repositories.SqBuilder.
		Select("media_id", "raw_url", "thumb_url", "expires_at").
		From("media_cache").
		Where(sq.Eq{"media_id": mediaID}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var record domain.CachedMediaRecord
	err = p.pg.QueryRow(ctx, query, args...).
		Scan(&record.MediaID, &record.RawURL, &record.ThumbURL, &record.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (p *Pgx) Upsert(ctx context.Context, record domain.CachedMediaRecord) error {
	query, args, err := repositories.SqBuilder.
		Insert("media_cache").
		Columns("media_id", "raw_url", "thumb_url", "expires_at").
		Values(record.MediaID, record.RawURL, record.ThumbURL, record.ExpiresAt).
		Suffix("ON CONFLICT (media_id) DO UPDATE SET raw_url = EXCLUDED.raw_url, thumb_url = EXCLUDED.thumb_url, expires_at = EXCLUDED.expires_at").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	return err
}

func (p *Pgx) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Delete("media_cache").
		Where(sq.Lt{"expires_at": time.Now().Add(-olderThan)}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
