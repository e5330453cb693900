package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airport/config"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps flight listings per query. Entries live under a generation
// number; bumping the generation makes every older entry unreachable.
type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

// GetFlights returns the cached listing for query and the generation it was
// looked up under. A miss returns nil flights and no error.
func (c *RedisCache) GetFlights(ctx context.Context, query string) ([]domain.Flight, int64, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}

	data, err := c.client.Get(ctx, flightsKey(gen, query)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, nil
		}
		return nil, 0, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, 0, err
	}
	return flights, gen, nil
}

// SetFlights stores a listing under the generation returned by the GetFlights
// call that preceded the database read.
func (c *RedisCache) SetFlights(ctx context.Context, gen int64, query string, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(gen, query), payload, c.flightsTTL).Err()
}

func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey()).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey()).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return gen, nil
}

func generationKey() string {
	return "cache:flights:generation"
}

func flightsKey(gen int64, query string) string {
	return fmt.Sprintf("cache:flights:%d:%s", gen, query)
}
