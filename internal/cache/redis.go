package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trusttrip/backend/config"
	"github.com/trusttrip/backend/internal/domain"
)

// RedisCache keeps price estimates and the stats snapshot warm. The booking
// service runs fine with a nil cache.
type RedisCache struct {
	client      *redis.Client
	estimateTTL time.Duration
	statsTTL    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, estimateTTL, statsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		estimateTTL: estimateTTL,
		statsTTL:    statsTTL,
	}
}

func (c *RedisCache) GetEstimate(ctx context.Context, t domain.BookingType, destination string, budget float64) (*domain.Estimate, error) {
	data, err := c.client.Get(ctx, estimateKey(t, destination, budget)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var estimate domain.Estimate
	if err := json.Unmarshal(data, &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}

func (c *RedisCache) SetEstimate(ctx context.Context, t domain.BookingType, destination string, budget float64, estimate *domain.Estimate) error {
	payload, err := json.Marshal(estimate)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, estimateKey(t, destination, budget), payload, c.estimateTTL).Err()
}

func (c *RedisCache) GetStats(ctx context.Context) (*domain.Stats, error) {
	data, err := c.client.Get(ctx, statsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var stats domain.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *RedisCache) SetStats(ctx context.Context, stats *domain.Stats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(), payload, c.statsTTL).Err()
}

// estimateKey includes the budget so quotes computed under different caps
// never collide.
func estimateKey(t domain.BookingType, destination string, budget float64) string {
	return fmt.Sprintf("cache:estimate:%s:%s:%g", t, destination, budget)
}

func statsKey() string {
	return "cache:stats"
}
