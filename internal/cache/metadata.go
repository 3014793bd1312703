// Package cache provides an optional Redis-backed cache for extracted
// page metadata. Scraping social platforms is slow (sequential user-agent
// rotation) and the result for a URL rarely changes inside the TTL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartmarks/smartmarks-api/internal/models"
)

const metadataKeyPrefix = "smartmarks:metadata:"

// MetadataCache caches fetch-metadata results by normalized URL. A nil
// *MetadataCache is valid and always misses, so callers never branch on
// whether caching is configured.
type MetadataCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewMetadata connects to Redis and returns a metadata cache. An empty
// redisURL returns (nil, nil): caching disabled.
func NewMetadata(ctx context.Context, redisURL string, ttl time.Duration, logger *slog.Logger) (*MetadataCache, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("metadata cache enabled", "addr", opts.Addr, "ttl", ttl)

	return &MetadataCache{client: client, ttl: ttl, logger: logger}, nil
}

// Get returns cached metadata for a URL, if present.
func (c *MetadataCache) Get(ctx context.Context, url string) (*models.Metadata, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, metadataKeyPrefix+url).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("metadata cache read failed", "url", url, "error", err)
		return nil, false
	}

	var meta models.Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, false
	}
	return &meta, true
}

// Set stores metadata for a URL. Write failures are logged, not
// propagated; the cache is advisory.
func (c *MetadataCache) Set(ctx context.Context, url string, meta models.Metadata) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, metadataKeyPrefix+url, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("metadata cache write failed", "url", url, "error", err)
	}
}

// Close releases the Redis connection.
func (c *MetadataCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
