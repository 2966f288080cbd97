// Package cache stores accurate-source search results for reuse within a
// TTL window, keyed by route and departure date.
package cache

import (
	"context"
	"time"

	"award-monitor/internal/models"
)

// Entry is the cached result set for one search key. Entries are replaced
// wholesale on refresh, never patched in place.
type Entry struct {
	Key       string               `json:"key"`
	Offers    []models.FlightOffer `json:"offers"`
	FetchedAt time.Time            `json:"fetchedAt"`
	ExpiresAt time.Time            `json:"expiresAt"`
}

// Expired reports whether the entry is past its TTL at the given time.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Store is the result cache contract. Get returns (nil, nil) on a miss;
// expired entries are misses and are evicted when touched. Implementations
// replace entries atomically so a reader never observes a partial write.
type Store interface {
	Get(ctx context.Context, key models.SearchKey) (*Entry, error)
	Put(ctx context.Context, key models.SearchKey, offers []models.FlightOffer, ttl time.Duration) error
	Invalidate(ctx context.Context, key models.SearchKey) error
	Close() error
}

func newEntry(key models.SearchKey, offers []models.FlightOffer, ttl time.Duration, now time.Time) Entry {
	return Entry{
		Key:       key.Key(),
		Offers:    offers,
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
