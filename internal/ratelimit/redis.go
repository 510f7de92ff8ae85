package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares the limiter between instances. A key lives exactly one
// window, so its existence is the rejection.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

// Acquire is SET key at NX PX window.
func (s *RedisStore) Acquire(ctx context.Context, key string, at time.Time, window time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), strconv.FormatInt(at.UnixMilli(), 10), window).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit acquire: %w", err)
	}
	return ok, nil
}
