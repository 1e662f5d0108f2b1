package service

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var (
	ErrRedisNotReachable = errors.New("redis not reachable")
	ErrNATSNotReachable  = errors.New("nats not reachable")
)

// Health checks the optional infrastructure. Components that are not configured are
// healthy by definition.
type Health struct {
	Redis *redis.Client
	NATS  *nats.Conn
}

func NewHealth(redis *redis.Client, nats *nats.Conn) *Health {
	return &Health{
		Redis: redis,
		NATS:  nats,
	}
}

func (s *Health) Ping(ctx context.Context) error {
	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return errors.Wrap(ErrRedisNotReachable, err.Error())
		}
	}

	// nats does automatic ping for 20 seconds interval (configured at infra/nats.go)
	if s.NATS != nil && !s.NATS.IsConnected() {
		return ErrNATSNotReachable
	}

	return nil
}
