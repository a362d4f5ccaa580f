// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the client backing the wizard session store.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis builds a pooled client. Pool sizes default to 10 connections with
// half kept idle.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	poolSize, minIdle := cfg.PoolSize, cfg.MinIdleConns
	if poolSize <= 0 {
		poolSize = 10
	}
	if minIdle <= 0 || minIdle > poolSize {
		minIdle = poolSize / 2
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     poolSize,
		MinIdleConns: minIdle,
	})

	return &RedisClient{Client: rdb}, nil
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c != nil && c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
