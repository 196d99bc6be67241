package database

import (
	"context"
	"fmt"

	"travel-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis when an address is configured.
// It returns a nil client when Redis is disabled.
func InitRedis(ctx context.Context, config utils.RedisConfig) (*redis.Client, error) {
	if config.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}

	return client, nil
}
