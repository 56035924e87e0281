package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/littlefern/storefront-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a sliding-window limiter used to slow down coupon-code
// guessing on the validation endpoint.
type RateLimiter struct {
	client *redis.Client
	config *config.RateConfig
	now    func() time.Time
}

func NewRateLimiter(client *redis.Client, cfg *config.RateConfig) *RateLimiter {
	return &RateLimiter{client: client, config: cfg, now: time.Now}
}

// Allow returns whether the identity may attempt another coupon validation,
// how many attempts remain, and how long to wait when denied.
func (r *RateLimiter) Allow(ctx context.Context, identity string) (bool, int64, time.Duration, error) {

	key := fmt.Sprintf("coupon_attempts:%s", identity)

	now := r.now().Unix()

	windowStart := now - int64(r.config.WindowSize.Seconds())

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})

	count := pipe.ZCard(ctx, key)

	pipe.Expire(ctx, key, r.config.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, fmt.Errorf("failed to run rate limit pipeline: %w", err)
	}

	attempts := count.Val()

	if attempts > r.config.MaxAttempts {
		return false, 0, r.config.WindowSize, nil
	}

	return true, r.config.MaxAttempts - attempts, 0, nil
}
