package state

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/Elieez/PricePilot/pkg/errors"
)

const redisKeyPrefix = "pricepilot:seen:"

// RedisStore keeps one JSON-encoded list per monitor slug. A plain value is
// used instead of a Redis set because the contract requires stable ordering.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(addr string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
	}
}

// LoadSeen reads the seen URLs for a slug; a missing key yields an empty set
func (s *RedisStore) LoadSeen(slug string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, redisKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewState(slug, "failed to read state from redis", err)
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, errs.NewState(slug, "corrupt state value in redis", err)
	}
	return urls, nil
}

// SaveSeen rewrites the seen URLs for a slug
func (s *RedisStore) SaveSeen(slug string, urls []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := json.Marshal(urls)
	if err != nil {
		return errs.NewState(slug, "failed to encode state", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+slug, data, 0).Err(); err != nil {
		return errs.NewState(slug, "failed to write state to redis", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
