package cache

import (
	"context"
	"sync"
	"time"

	"award-monitor/internal/models"
)

// MemoryStore is an in-process Store. Expired entries are evicted the next
// time their key is touched; there is no size-bound eviction since keys are
// bounded by the configured route and date universe.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key models.SearchKey) (*Entry, error) {
	k := key.Key()

	s.mu.RLock()
	e, ok := s.entries[k]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if e.Expired(s.now()) {
		s.mu.Lock()
		// Re-check under the write lock; a writer may have refreshed the key.
		if cur, ok := s.entries[k]; ok && cur.Expired(s.now()) {
			delete(s.entries, k)
		}
		s.mu.Unlock()
		return nil, nil
	}
	return &e, nil
}

func (s *MemoryStore) Put(_ context.Context, key models.SearchKey, offers []models.FlightOffer, ttl time.Duration) error {
	e := newEntry(key, offers, ttl, s.now())

	s.mu.Lock()
	s.entries[key.Key()] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, key models.SearchKey) error {
	s.mu.Lock()
	delete(s.entries, key.Key())
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
