// Package cache provides a small JSON cache over Redis for the dashboard
// aggregations. When Redis is disabled or unreachable every operation is a
// miss, so callers never depend on the cache being there.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mulearn-geci/community-api/internal/config"
	"github.com/mulearn-geci/community-api/internal/logger"
)

// Cache stores JSON-encoded values under string keys with a TTL
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache from config. A disabled config returns a nil-client
// cache whose operations are all misses.
func New(cfg *config.Config) *Cache {
	if !cfg.Redis.Enabled {
		return &Cache{ttl: cfg.Redis.StatsTTL}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Cache().Warn("Redis unreachable, caching disabled", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
		return &Cache{ttl: cfg.Redis.StatsTTL}
	}

	logger.Cache().Info("Connected to Redis", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.StatsTTL)
	return &Cache{client: client, ttl: cfg.Redis.StatsTTL}
}

// Get unmarshals the cached value for key into dest, reporting whether the
// key was present.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Cache().Warn("Cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.Cache().Warn("Cache entry corrupt, dropping", "key", key, "error", err)
		_ = c.client.Del(ctx, key).Err()
		return false
	}
	return true
}

// Set stores value under key for the configured TTL, best effort
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Cache().Warn("Cache value not serializable", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Cache().Warn("Cache write failed", "key", key, "error", err)
	}
}

// Invalidate removes keys, best effort
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Cache().Warn("Cache invalidation failed", "keys", keys, "error", err)
	}
}

// Close releases the Redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
