package repositories

import (
	"context"
	"errors"
	"fmt"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/platform/obs"
	"route-timing-service/internal/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRouteStore keeps one JSON document per day under <prefix><YYYY-MM-DD>.
type RedisRouteStore struct {
	Client *redis.Client
	Prefix string
	Logger *zap.Logger
}

func NewRedisRouteStore(client *redis.Client, prefix string, logger *zap.Logger) *RedisRouteStore {
	return &RedisRouteStore{Client: client, Prefix: prefix, Logger: logger}
}

func (s *RedisRouteStore) key(day string) string { return s.Prefix + day }

func (s *RedisRouteStore) Load(ctx context.Context, day string) (_ domain.SavedRoute, err error) {
	defer obs.Time(ctx, s.Logger, "routes.redis.Load", ports.ErrRouteNotFound)(&err)

	raw, err := s.Client.Get(ctx, s.key(day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load route %s: %w", day, err)
	}
	return decodeRoute(day, raw)
}

func (s *RedisRouteStore) Save(ctx context.Context, day string, route domain.SavedRoute) (err error) {
	defer obs.Time(ctx, s.Logger, "routes.redis.Save")(&err)

	b, err := encodeRoute(day, route)
	if err != nil {
		return err
	}
	if err := s.Client.Set(ctx, s.key(day), b, 0).Err(); err != nil {
		return fmt.Errorf("save route %s: %w", day, err)
	}
	return nil
}

func (s *RedisRouteStore) Clear(ctx context.Context, day string) (err error) {
	defer obs.Time(ctx, s.Logger, "routes.redis.Clear")(&err)

	if err := s.Client.Del(ctx, s.key(day)).Err(); err != nil {
		return fmt.Errorf("clear route %s: %w", day, err)
	}
	return nil
}
