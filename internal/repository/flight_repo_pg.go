package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/nattawatz/flightdesk/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type PGFlightRepository struct {
	store *Store
}

func NewFlightRepository(store *Store) FlightRepository {
	return &PGFlightRepository{store: store}
}

const flightColumns = `id, airline_id, aircraft_id, departure, destination, departure_time, arrival_time, stop_over, duration_minutes, base_price_cents, status, created_at, updated_at`

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.store.querier(ctx).Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.ID, &f.AirlineID, &f.AircraftID, &f.Departure, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.StopOver, &f.DurationMinutes, &f.BasePriceCents, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.store.querier(ctx).QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.AirlineID, &f.AircraftID, &f.Departure, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.StopOver, &f.DurationMinutes, &f.BasePriceCents, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
