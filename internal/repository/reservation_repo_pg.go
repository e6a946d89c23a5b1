package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nattawatz/flightdesk/internal/domain"
)

type ReservationRepository interface {
	Insert(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	Delete(ctx context.Context, id int64) error
	ListPassengerCandidates(ctx context.Context, flightID int64) ([]domain.PassengerCandidate, error)
	ListStalePending(ctx context.Context, cutoff time.Time) ([]int64, error)
}

type PGReservationRepository struct {
	store *Store
}

func NewReservationRepository(store *Store) ReservationRepository {
	return &PGReservationRepository{store: store}
}

const reservationColumns = `id, reference, user_id, flight_id, seat_id, status, booking_date, created_at, updated_at`

func (r *PGReservationRepository) Insert(ctx context.Context, res *domain.Reservation) error {
	return r.store.querier(ctx).QueryRow(ctx, `INSERT INTO reservations (reference, user_id, flight_id, seat_id, status, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		res.Reference, res.UserID, res.FlightID, res.SeatID, res.Status, res.BookingDate).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := r.store.querier(ctx).QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

func (r *PGReservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	rows, err := r.store.querier(ctx).Query(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY booking_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func (r *PGReservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	cmd, err := r.store.querier(ctx).Exec(ctx, `UPDATE reservations
		SET user_id=$1, flight_id=$2, seat_id=$3, status=$4, booking_date=$5, updated_at=now()
		WHERE id=$6`,
		res.UserID, res.FlightID, res.SeatID, res.Status, res.BookingDate, res.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *PGReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	cmd, err := r.store.querier(ctx).Exec(ctx, `UPDATE reservations SET status=$1, updated_at=now() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *PGReservationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.store.querier(ctx).Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// ListPassengerCandidates returns confirmed reservations on the flight that
// still lack a passenger record.
func (r *PGReservationRepository) ListPassengerCandidates(ctx context.Context, flightID int64) ([]domain.PassengerCandidate, error) {
	rows, err := r.store.querier(ctx).Query(ctx, `SELECT r.id, s.id, s.seat_number
		FROM reservations r
		JOIN seats s ON s.id = r.seat_id
		LEFT JOIN passengers p ON p.reservation_id = r.id
		WHERE r.flight_id = $1 AND r.status = $2 AND p.id IS NULL
		ORDER BY s.seat_number`, flightID, domain.ReservationStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]domain.PassengerCandidate, 0)
	for rows.Next() {
		var c domain.PassengerCandidate
		if err := rows.Scan(&c.ReservationID, &c.SeatID, &c.SeatNumber); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// ListStalePending returns pending reservations created before cutoff whose
// payment never settled.
func (r *PGReservationRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]int64, error) {
	rows, err := r.store.querier(ctx).Query(ctx, `SELECT r.id
		FROM reservations r
		LEFT JOIN payments p ON p.reservation_id = r.id
		WHERE r.status = $1 AND r.created_at <= $2
		  AND (p.id IS NULL OR p.status <> $3)`,
		domain.ReservationStatusPending, cutoff, domain.PaymentStatusSuccessful)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.Reference, &res.UserID, &res.FlightID, &res.SeatID, &res.Status, &res.BookingDate, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
