package interfaces

import (
	"context"
	"time"
)

// CacheProvider stores rendered fragments keyed by string.
// Get returns an error on a miss.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
