// Package cache keeps resolved short links in Redis so redirects skip the
// database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/storage"
)

const (
	DefaultTTL = 10 * time.Minute
	keyPrefix  = "vh7:link:"
)

// LinkCache is a best-effort cache. Failures are logged and reported as
// misses.
type LinkCache interface {
	Get(ctx context.Context, link string) (*storage.ShortLink, bool)
	Set(ctx context.Context, sl *storage.ShortLink)
	Delete(ctx context.Context, link string)
}

type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedis(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisCache) Get(ctx context.Context, link string) (*storage.ShortLink, bool) {
	data, err := c.client.Get(ctx, keyPrefix+link).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("link cache get failed", zap.String("link", link), zap.Error(err))
		return nil, false
	}

	var sl storage.ShortLink
	if err := json.Unmarshal(data, &sl); err != nil {
		c.logger.Warn("link cache entry is corrupt", zap.String("link", link), zap.Error(err))
		c.Delete(ctx, link)
		return nil, false
	}

	return &sl, true
}

func (c *RedisCache) Set(ctx context.Context, sl *storage.ShortLink) {
	data, err := json.Marshal(sl)
	if err != nil {
		c.logger.Warn("link cache encode failed", zap.String("link", sl.Link), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, keyPrefix+sl.Link, data, c.ttl).Err(); err != nil {
		c.logger.Warn("link cache set failed", zap.String("link", sl.Link), zap.Error(err))
	}
}

func (c *RedisCache) Delete(ctx context.Context, link string) {
	if err := c.client.Del(ctx, keyPrefix+link).Err(); err != nil {
		c.logger.Warn("link cache delete failed", zap.String("link", link), zap.Error(err))
	}
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*storage.ShortLink, bool) { return nil, false }
func (Noop) Set(context.Context, *storage.ShortLink)                {}
func (Noop) Delete(context.Context, string)                         {}
