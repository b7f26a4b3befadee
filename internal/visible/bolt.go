package visible

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashfeed/hashfeed/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketHashtag = []byte("visible_hashtag")
	bucketMention = []byte("visible_mention")
)

// Bolt is the file-backed Store implementation.
type Bolt struct {
	db *bolt.DB
}

func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open visible store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketHashtag, bucketMention} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

var _ Store = (*Bolt)(nil)

func (s *Bolt) Close() error {
	return s.db.Close()
}

func bucketFor(source Source) []byte {
	if source == SourceMention {
		return bucketMention
	}
	return bucketHashtag
}

func (s *Bolt) Read(_ context.Context, source Source) ([]domain.VisibleRecord, error) {
	var records []domain.VisibleRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFor(source)).ForEach(func(_, v []byte) error {
			var rec domain.VisibleRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode visible record: %w", err)
			}
			records = append(records, rec)
			return nil
		})
	})
	return records, err
}

// Write replaces the whole list for source.
func (s *Bolt) Write(_ context.Context, source Source, records []domain.VisibleRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketFor(source)); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketFor(source))
		if err != nil {
			return err
		}
		for _, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(rec.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Bolt) Get(_ context.Context, source Source, id string) (*domain.VisibleRecord, error) {
	var rec *domain.VisibleRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketFor(source)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		rec = &domain.VisibleRecord{}
		return json.Unmarshal(data, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Bolt) Put(_ context.Context, source Source, record domain.VisibleRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFor(source)).Put([]byte(record.ID), data)
	})
}
