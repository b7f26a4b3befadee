package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateMediaCache, downCreateMediaCache)
}

func upCreateMediaCache(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE media_cache (
		media_id VARCHAR PRIMARY KEY,
		raw_url TEXT NOT NULL DEFAULT '',
		thumb_url TEXT NOT NULL DEFAULT '',
		expires_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX media_cache_expires_at_idx ON media_cache (expires_at);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateMediaCache(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE media_cache;
	`)
	if err != nil {
		return err
	}
	return nil
}
