package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"

	"award-monitor/internal/common/errors"
	"award-monitor/internal/models"
)

const boltBucket = "search_results"

// BoltStore persists entries in a local bolt file for single-instance
// deployments that want cache survival across restarts without running
// Redis. Expiry is enforced on read since bolt has no native TTL.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}

	// CreateBucketIfNotExists is safe to run on every startup.
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.NewCacheUnavailableError(err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(_ context.Context, key models.SearchKey) (*Entry, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(boltBucket)).Get([]byte(key.Key())); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}
	if raw == nil {
		return nil, nil
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		s.deleteKey(key)
		return nil, nil
	}
	if e.Expired(time.Now()) {
		s.deleteKey(key)
		return nil, nil
	}
	return &e, nil
}

func (s *BoltStore) Put(_ context.Context, key models.SearchKey, offers []models.FlightOffer, ttl time.Duration) error {
	e := newEntry(key, offers, ttl, time.Now())

	raw, err := json.Marshal(e)
	if err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key.Key()), raw)
	})
	if err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

func (s *BoltStore) Invalidate(_ context.Context, key models.SearchKey) error {
	if err := s.deleteKey(key); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

func (s *BoltStore) deleteKey(key models.SearchKey) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key.Key()))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
