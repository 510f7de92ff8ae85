// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"nanolez-eduai/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the shared rate-limit store.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis builds the client without dialing; call Ping to verify.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	// Rate-limit checks are one GET and one SET per request, so the pool
	// stays small and the timeouts short.
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     20,
		MinIdleConns: 1,
	})
	return &RedisClient{Client: rdb}, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
