package ratelimit

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// RedisCounter is the shared backing for multi-instance deployments. INCR is
// atomic across instances; expired windows are left to the key TTL rather
// than pruned actively.
type RedisCounter struct {
	client *redisv9.Client
}

func NewRedisCounter(client *redisv9.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, windowStart int64, window time.Duration) (int64, error) {
	redisKey := fmt.Sprintf("rate_limit:%s:%d", key, windowStart)

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr rate limit failed: %w", err)
	}
	return incr.Val(), nil
}
