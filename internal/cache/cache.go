// Package cache stores search results. The in-memory implementation is used
// by default; Redis is used when REDIS_ADDR is configured.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-serialisable values under string keys.
type Cache interface {
	// Get decodes the value stored under key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}
