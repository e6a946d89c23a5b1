package pricing

import (
	"context"
	"math"
	"time"

	"github.com/nattawatz/flightdesk/internal/domain"
	"github.com/nattawatz/flightdesk/internal/repository"
)

// Cache fronts the seat-class multiplier lookups.
type Cache interface {
	GetMultiplier(ctx context.Context, class domain.SeatClass) (float64, bool, error)
	SetMultiplier(ctx context.Context, class domain.SeatClass, multiplier float64, ttl time.Duration) error
}

// Resolver derives the payment amount from the flight base price and the
// seat-class multiplier. Client-supplied amounts are never consulted.
type Resolver struct {
	flights     repository.FlightRepository
	multipliers repository.SeatMultiplierRepository
	cache       Cache
	cacheTTL    time.Duration
}

func NewResolver(flights repository.FlightRepository, multipliers repository.SeatMultiplierRepository, cache Cache, cacheTTL time.Duration) *Resolver {
	return &Resolver{flights: flights, multipliers: multipliers, cache: cache, cacheTTL: cacheTTL}
}

func (r *Resolver) Resolve(ctx context.Context, flightID int64, class domain.SeatClass) (int64, error) {
	flight, err := r.flights.GetByID(ctx, flightID)
	if err != nil {
		return 0, err
	}

	multiplier, err := r.multiplier(ctx, class)
	if err != nil {
		return 0, err
	}

	return int64(math.Round(float64(flight.BasePriceCents) * multiplier)), nil
}

// multiplier reads through the cache. An unknown seat class is an error; there
// is no 1.0 fallback.
func (r *Resolver) multiplier(ctx context.Context, class domain.SeatClass) (float64, error) {
	if r.cache != nil {
		if value, ok, err := r.cache.GetMultiplier(ctx, class); err == nil && ok {
			return value, nil
		}
	}

	m, err := r.multipliers.GetByClass(ctx, class)
	if err != nil {
		return 0, err
	}
	if r.cache != nil {
		_ = r.cache.SetMultiplier(ctx, class, m.Multiplier, r.cacheTTL)
	}
	return m.Multiplier, nil
}
