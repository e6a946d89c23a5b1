package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/nattawatz/flightdesk/internal/domain"
)

type PassengerRepository interface {
	Upsert(ctx context.Context, p *domain.Passenger) error
	GetByReservation(ctx context.Context, reservationID int64) (*domain.Passenger, error)
	DeleteByReservation(ctx context.Context, reservationID int64) error
}

type PGPassengerRepository struct {
	store *Store
}

func NewPassengerRepository(store *Store) PassengerRepository {
	return &PGPassengerRepository{store: store}
}

// Upsert inserts the passenger for a reservation or updates it in place.
// Passengers are keyed 1:1 by reservation.
func (r *PGPassengerRepository) Upsert(ctx context.Context, p *domain.Passenger) error {
	return r.store.querier(ctx).QueryRow(ctx, `INSERT INTO passengers
		(reservation_id, seat_id, first_name, middle_name, last_name, nationality, birth_date, passport_number, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (reservation_id) DO UPDATE SET
			seat_id = EXCLUDED.seat_id,
			first_name = EXCLUDED.first_name,
			middle_name = EXCLUDED.middle_name,
			last_name = EXCLUDED.last_name,
			nationality = EXCLUDED.nationality,
			birth_date = EXCLUDED.birth_date,
			passport_number = EXCLUDED.passport_number,
			address = EXCLUDED.address
		RETURNING id`,
		p.ReservationID, p.SeatID, p.FirstName, p.MiddleName, p.LastName, p.Nationality, p.BirthDate, p.PassportNumber, p.Address).
		Scan(&p.ID)
}

func (r *PGPassengerRepository) GetByReservation(ctx context.Context, reservationID int64) (*domain.Passenger, error) {
	row := r.store.querier(ctx).QueryRow(ctx, `SELECT id, reservation_id, seat_id, first_name, middle_name, last_name, nationality, birth_date, passport_number, address
		FROM passengers WHERE reservation_id=$1`, reservationID)
	var p domain.Passenger
	if err := row.Scan(&p.ID, &p.ReservationID, &p.SeatID, &p.FirstName, &p.MiddleName, &p.LastName, &p.Nationality, &p.BirthDate, &p.PassportNumber, &p.Address); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPassengerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPassengerRepository) DeleteByReservation(ctx context.Context, reservationID int64) error {
	_, err := r.store.querier(ctx).Exec(ctx, `DELETE FROM passengers WHERE reservation_id=$1`, reservationID)
	return err
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
