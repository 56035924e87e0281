package cache

import (
	"context"
	"time"
)

// Cache is the read-through cache in front of catalog lookups.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
