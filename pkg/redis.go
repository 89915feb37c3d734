package pkg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/adaptive-assessment/internal/cache"
	"github.com/SAP-F-2025/adaptive-assessment/internal/config"
	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}

// NewQuestionCache returns a redis-backed cache, or a no-op cache when
// REDIS_URL is empty. The returned close func is never nil.
func NewQuestionCache(cfg *config.Config, logger *slog.Logger) (cache.CacheService, func() error, error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, question cache disabled")
		return cache.NewNoopCache(), func() error { return nil }, nil
	}

	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisCache(client, logger, "assessment"), client.Close, nil
}
