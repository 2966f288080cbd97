package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"award-monitor/internal/common/errors"
	"award-monitor/internal/models"
)

const redisKeyPrefix = "award:search:"

// RedisStore persists entries in Redis so cached accurate-source results
// survive restarts and are shared across monitor instances. Redis handles
// TTL expiry itself; SET with expiration replaces entries atomically.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key models.SearchKey) (*Entry, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key.Key()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		// A corrupt entry is unusable; drop it and report a miss.
		s.client.Del(ctx, redisKeyPrefix+key.Key())
		return nil, nil
	}
	if e.Expired(time.Now()) {
		return nil, nil
	}
	return &e, nil
}

func (s *RedisStore) Put(ctx context.Context, key models.SearchKey, offers []models.FlightOffer, ttl time.Duration) error {
	e := newEntry(key, offers, ttl, time.Now())

	raw, err := json.Marshal(e)
	if err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key.Key(), raw, ttl).Err(); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

func (s *RedisStore) Invalidate(ctx context.Context, key models.SearchKey) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key.Key()).Err(); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
