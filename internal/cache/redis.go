package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nattawatz/flightdesk/config"
	"github.com/nattawatz/flightdesk/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

func (c *RedisCache) GetMultiplier(ctx context.Context, class domain.SeatClass) (float64, bool, error) {
	value, err := c.client.Get(ctx, multiplierKey(class)).Float64()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}
	return value, true, nil
}

func (c *RedisCache) SetMultiplier(ctx context.Context, class domain.SeatClass, multiplier float64, ttl time.Duration) error {
	return c.client.Set(ctx, multiplierKey(class), multiplier, ttl).Err()
}

// AcquireSeatHold places a short advisory hold on a seat while the booking
// transaction runs. The database conditional update stays the source of truth
// for seat exclusivity.
func (c *RedisCache) AcquireSeatHold(ctx context.Context, flightID int64, seatNumber string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatHoldKey(flightID, seatNumber), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSeatHold(ctx context.Context, flightID int64, seatNumber string) error {
	return c.client.Del(ctx, seatHoldKey(flightID, seatNumber)).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func multiplierKey(class domain.SeatClass) string {
	return fmt.Sprintf("cache:multiplier:%s", class)
}

func seatHoldKey(flightID int64, seatNumber string) string {
	return fmt.Sprintf("hold:flight:%d:seat:%s", flightID, seatNumber)
}
