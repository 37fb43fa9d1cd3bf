// Package cache keeps the job analytics in Redis so /statscharts does not run
// the facet aggregation on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/jobhunt/pkg/models"
	"github.com/garnizeh/jobhunt/pkg/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StatsKey is the Redis key holding the encoded JobStats.
const StatsKey = "jobhunt:stats"

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// StatsCache is a read-through cache in front of a StatsRepo. A nil client
// disables caching. Redis failures are logged and served from the store.
type StatsCache struct {
	next   repository.StatsRepo
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

var _ repository.StatsRepo = (*StatsCache)(nil)

func NewStatsCache(next repository.StatsRepo, rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *StatsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsCache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *StatsCache) JobStats(ctx context.Context) (*models.JobStats, error) {
	if c.rdb == nil {
		return c.next.JobStats(ctx)
	}

	b, err := c.rdb.Get(ctx, StatsKey).Bytes()
	switch {
	case err == nil:
		var stats models.JobStats
		jerr := json.Unmarshal(b, &stats)
		if jerr == nil {
			return &stats, nil
		}
		c.logger.Warn("discarding undecodable cached stats", zap.Error(jerr))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("stats cache read failed", zap.Error(err))
	}

	stats, err := c.next.JobStats(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(stats); err != nil {
		c.logger.Warn("encode stats for cache", zap.Error(err))
	} else if err := c.rdb.Set(ctx, StatsKey, b, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.Error(err))
	}

	return stats, nil
}

// Invalidate drops the cached stats. It is called after every import.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, StatsKey).Err(); err != nil {
		return fmt.Errorf("invalidate stats cache: %w", err)
	}
	return nil
}
