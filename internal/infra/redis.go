package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"potionportal.dev/backend/internal/app/appconfig"
)

// Redis opens the optional Redis client. It returns nil when no Redis URL is configured.
func Redis(conf *appconfig.Config) (*redis.Client, error) {
	if conf.RedisURL == "" {
		log.Info().Str("evt.name", "infra.redis.disabled").Msg("Redis is disabled due to missing URL; refreshes are serialized in-process only")
		return nil, nil
	}

	u, err := redis.ParseURL(conf.RedisURL)
	if err != nil {
		log.Error().Err(err).Msg("infra: redis: failed to parse redis url")
		return nil, err
	}

	client := redis.NewClient(u)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("infra: redis: failed to ping database")
		return nil, err
	}

	return client, nil
}
