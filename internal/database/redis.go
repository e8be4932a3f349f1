package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-railway/internal/config"
	"ms-railway/internal/logger"
)

// ConnectRedis creates the shared client and verifies it with a ping.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection error at %s: %w", cfg.Addr, err)
	}

	log.Info("REDIS", fmt.Sprintf("Connected to Redis at %s (DB: %d)", cfg.Addr, cfg.DB))
	return client, nil
}
