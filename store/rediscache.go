package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache shares table snapshots between server instances.
// Cache failures are logged and treated as misses.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

func (c *RedisCache) key(t Table) string {
	return c.prefix + "table:" + string(t)
}

func (c *RedisCache) Get(ctx context.Context, t Table) ([]Record, bool) {
	raw, err := c.client.Get(ctx, c.key(t)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis cache get failed", zap.String("table", string(t)), zap.Error(err))
		}
		return nil, false
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		c.logger.Warn("redis cache payload corrupt", zap.String("table", string(t)), zap.Error(err))
		return nil, false
	}
	return records, true
}

func (c *RedisCache) Set(ctx context.Context, t Table, records []Record) {
	payload, err := json.Marshal(records)
	if err != nil {
		c.logger.Warn("marshal cache snapshot", zap.String("table", string(t)), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(t), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("redis cache set failed", zap.String("table", string(t)), zap.Error(err))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, t Table) {
	if err := c.client.Del(ctx, c.key(t)).Err(); err != nil {
		c.logger.Warn("redis cache invalidate failed", zap.String("table", string(t)), zap.Error(err))
	}
}
