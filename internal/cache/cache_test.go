package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/internal/cache"
	"github.com/garnizeh/jobhunt/pkg/models"
	"github.com/garnizeh/jobhunt/pkg/repository/mock"
	"github.com/redis/go-redis/v9"
)

func TestStatsCache_DisabledPassesThrough(t *testing.T) {
	m := mock.NewMocks()
	m.JobRepo.Stats = &models.JobStats{Total: 3}

	c := cache.NewStatsCache(m.JobRepo, nil, time.Minute, nil)
	for i := 0; i < 2; i++ {
		got, err := c.JobStats(context.Background())
		if err != nil {
			t.Fatalf("JobStats: %v", err)
		}
		if got.Total != 3 {
			t.Fatalf("total: want 3 got %d", got.Total)
		}
	}
	if m.JobRepo.StatsCalls != 2 {
		t.Fatalf("expected every call to reach the store, got %d", m.JobRepo.StatsCalls)
	}
	if err := c.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate on disabled cache: %v", err)
	}
}

func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestStatsCache_RedisDownFallsThrough(t *testing.T) {
	m := mock.NewMocks()
	m.JobRepo.Stats = &models.JobStats{Total: 7}

	c := cache.NewStatsCache(m.JobRepo, unreachable(t), time.Minute, nil)
	got, err := c.JobStats(context.Background())
	if err != nil {
		t.Fatalf("JobStats should not surface cache errors: %v", err)
	}
	if got.Total != 7 || m.JobRepo.StatsCalls != 1 {
		t.Fatalf("unexpected result total=%d calls=%d", got.Total, m.JobRepo.StatsCalls)
	}

	if err := c.Invalidate(context.Background()); err == nil {
		t.Fatalf("expected invalidate error with redis down")
	}
}

func TestStatsCache_StoreErrorsPropagate(t *testing.T) {
	m := mock.NewMocks()
	m.JobRepo.StatsErr = apperr.ErrNoData

	c := cache.NewStatsCache(m.JobRepo, unreachable(t), time.Minute, nil)
	if _, err := c.JobStats(context.Background()); !errors.Is(err, apperr.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestNewRedisClient_BadURL(t *testing.T) {
	if _, err := cache.NewRedisClient(context.Background(), "not-a-url"); err == nil {
		t.Fatalf("expected parse error")
	}
}
