package cache

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisRoutePrefix = "fuelroute:route:"

// RedisRouteCache keeps ORS routes in Redis with an expiry so they are
// refreshed periodically.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

// OpenRedis returns a client for addr, or nil when addr is empty.
func OpenRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

func (c *RedisRouteCache) key(origin, destination domain.Coordinates) string {
	o, d := routeKey(origin, destination)
	return redisRoutePrefix + o + "|" + d
}

func (c *RedisRouteCache) GetRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	if c.Client == nil {
		return domain.Route{}, false, errors.New("route cache: redis client is nil")
	}

	b, err := c.Client.Get(ctx, c.key(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: %w", err)
	}

	r, err := decodeRoute(b)
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: %w", err)
	}
	return r, true, nil
}

func (c *RedisRouteCache) PutRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	route domain.Route,
) error {
	if c.Client == nil {
		return errors.New("route cache: redis client is nil")
	}

	b, err := encodeRoute(route)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	if err := c.Client.Set(ctx, c.key(origin, destination), b, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}
	return nil
}
