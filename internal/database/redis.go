package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pageza/alchemorsel-mealplanner/backend/config"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client from cfg and pings it. REDIS_URL wins over the
// host/port settings.
func NewRedisClient(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	if cfg.RedisURL != "" {
		parsedOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsedOpts
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("successfully connected to Redis", "addr", opts.Addr)
	return client, nil
}

// RedisHealthCheck returns a check that pings client.
func RedisHealthCheck(client redis.UniversalClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
