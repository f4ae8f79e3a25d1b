package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultTTL = 30 * time.Second

// OverviewCache is a small Redis-backed cache for computed dashboard
// payloads. A nil *OverviewCache is valid and disables caching, so callers
// never need to branch on whether Redis is configured.
type OverviewCache struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New connects to Redis at addr. An empty addr returns a nil cache.
func New(ctx context.Context, addr string, logger *zap.Logger) (*OverviewCache, error) {
	if addr == "" {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &OverviewCache{rdb: rdb, ttl: defaultTTL, logger: logger}, nil
}

// Get loads the cached JSON payload for key into out. A miss or any cache
// failure reports false; the caller recomputes.
func (c *OverviewCache) Get(ctx context.Context, key string, out interface{}) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Debug("cache payload decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key with the cache TTL. Failures are logged only;
// the cache is best effort.
func (c *OverviewCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Debug("cache payload encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops the given keys.
func (c *OverviewCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Debug("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *OverviewCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// OverviewKey builds the cache key for a dashboard range.
func OverviewKey(rangeName string) string {
	return "overview:" + rangeName
}
