package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mixMatchBundles/domain"
	"time"

	"github.com/redis/go-redis/v9"
)

const sweepResultKey = "coupon_janitor:last_result"

type SweepCache struct {
	client *redis.Client
}

func NewSweepCache(client *redis.Client) *SweepCache {
	return &SweepCache{
		client: client,
	}
}

func (c *SweepCache) GetSweepResult(ctx context.Context) (*domain.SweepResult, error) {
	val, err := c.client.Get(ctx, sweepResultKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sweep result from Redis: %w", err)
	}

	var result domain.SweepResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sweep result: %w", err)
	}

	return &result, nil
}

func (c *SweepCache) SaveSweepResult(ctx context.Context, result domain.SweepResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal sweep result: %w", err)
	}

	if err := c.client.Set(ctx, sweepResultKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store sweep result in Redis: %w", err)
	}

	return nil
}
