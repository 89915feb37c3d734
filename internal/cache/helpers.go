package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// CacheOrExecute fills dest from the cache, or runs fn, stores its value and
// copies it into dest. Cache failures never fail the call.
func CacheOrExecute(ctx context.Context, c CacheService, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		slog.WarnContext(ctx, "Cache read failed, falling back to source", "key", key, "error", err)
	}

	value, err := fn()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode value for %s: %w", key, err)
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		slog.WarnContext(ctx, "Cache write failed", "key", key, "error", err)
	}
	return nil
}

// SafeDelete removes a key and only logs failures.
func SafeDelete(ctx context.Context, c CacheService, key string) {
	if err := c.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "Cache delete failed", "key", key, "error", err)
	}
}

// SafeInvalidatePattern removes keys matching pattern and only logs failures.
func SafeInvalidatePattern(ctx context.Context, c CacheService, pattern string) {
	if err := c.DeletePattern(ctx, pattern); err != nil {
		slog.WarnContext(ctx, "Cache invalidation failed", "pattern", pattern, "error", err)
	}
}
