// Package cache holds the Redis-backed snapshot cache for dashboard stats.
// Stats are eventually-consistent reads, so serving a slightly stale
// snapshot is acceptable.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"grievance-service/internal/config"
)

type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewStatsCache returns nil when no Redis address is configured; a nil
// cache is a valid no-op receiver.
func NewStatsCache(cfg config.RedisConfig, log zerolog.Logger) *StatsCache {
	if cfg.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})
	return &StatsCache{rdb: rdb, ttl: cfg.StatsTTL, log: log}
}

func (c *StatsCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("stats cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("stats cache entry corrupt")
		return false
	}
	return true
}

func (c *StatsCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("stats cache write failed")
	}
}
