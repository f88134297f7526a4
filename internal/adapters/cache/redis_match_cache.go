package cache

import (
	"context"
	"errors"
	"fmt"
	"storage-match-service/internal/domain"
	"storage-match-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis-backed cache of ranked storage search results.
// Entries expire after TTL; a zero TTL keeps them until evicted.
type RedisMatchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisMatchCache(rdb *redis.Client, ttl time.Duration) *RedisMatchCache {
	return &RedisMatchCache{rdb: rdb, ttl: ttl}
}

// NewRedisMatchCacheFromURL parses a redis:// URL and verifies the connection.
func NewRedisMatchCacheFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisMatchCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis match cache: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis match cache: ping: %w", err)
	}

	return NewRedisMatchCache(rdb, ttl), nil
}

// Fetch cached results for key.
func (c *RedisMatchCache) Get(ctx context.Context, key string) (_ []domain.LocationResult, _ bool, err error) {
	defer obs.Time(ctx, "match.cache.Get")(&err)

	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get match cache: key must not be empty")
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get match cache: %w", err)
	}

	out, err := decodeResults(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get match cache: decode %q: %w", key, err)
	}
	return out, true, nil
}

// Store results under key.
func (c *RedisMatchCache) Put(ctx context.Context, key string, results []domain.LocationResult) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("put match cache: key must not be empty")
	}

	payload, err := encodeResults(results)
	if err != nil {
		return fmt.Errorf("put match cache: encode: %w", err)
	}

	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("put match cache %q: %w", key, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *RedisMatchCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisMatchCache) Close() error {
	return c.rdb.Close()
}
