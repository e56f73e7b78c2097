package config

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// NewRedisClient returns nil when no address is configured.
func NewRedisClient(ctx context.Context, cfg Redis) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	operation := func() (string, error) {
		return client.Ping(ctx).Result()
	}
	if _, err := retry(ctx, operation); err != nil {
		_ = client.Close()
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("addr", cfg.Addr).Msg("connected to redis")
	return client, nil
}
