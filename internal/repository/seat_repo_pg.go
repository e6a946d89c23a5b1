package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/nattawatz/flightdesk/internal/domain"
)

type SeatRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Seat, error)
	FindByNumber(ctx context.Context, flightID int64, seatNumber string) (*domain.Seat, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Seat, error)
	Claim(ctx context.Context, seatID int64) error
	Release(ctx context.Context, seatID int64) error
}

type PGSeatRepository struct {
	store *Store
}

func NewSeatRepository(store *Store) SeatRepository {
	return &PGSeatRepository{store: store}
}

const seatColumns = `id, flight_id, seat_number, seat_class, available, checked_in`

func (r *PGSeatRepository) GetByID(ctx context.Context, id int64) (*domain.Seat, error) {
	row := r.store.querier(ctx).QueryRow(ctx, `SELECT `+seatColumns+` FROM seats WHERE id=$1`, id)
	return scanSeat(row)
}

func (r *PGSeatRepository) FindByNumber(ctx context.Context, flightID int64, seatNumber string) (*domain.Seat, error) {
	row := r.store.querier(ctx).QueryRow(ctx, `SELECT `+seatColumns+` FROM seats WHERE flight_id=$1 AND seat_number=$2`, flightID, seatNumber)
	return scanSeat(row)
}

func (r *PGSeatRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	rows, err := r.store.querier(ctx).Query(ctx, `SELECT `+seatColumns+` FROM seats WHERE flight_id=$1 ORDER BY seat_number`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Class, &s.Available, &s.CheckedIn); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// Claim flips the seat to unavailable only if it is currently free. The
// conditional update makes the check-then-act race a single atomic statement;
// a concurrent claimer loses by affecting zero rows.
func (r *PGSeatRepository) Claim(ctx context.Context, seatID int64) error {
	cmd, err := r.store.querier(ctx).Exec(ctx, `UPDATE seats SET available = FALSE WHERE id=$1 AND available = TRUE`, seatID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSeatUnavailable
	}
	return nil
}

func (r *PGSeatRepository) Release(ctx context.Context, seatID int64) error {
	cmd, err := r.store.querier(ctx).Exec(ctx, `UPDATE seats SET available = TRUE WHERE id=$1`, seatID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSeatNotFound
	}
	return nil
}

func scanSeat(row pgx.Row) (*domain.Seat, error) {
	var s domain.Seat
	if err := row.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Class, &s.Available, &s.CheckedIn); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

var _ SeatRepository = (*PGSeatRepository)(nil)
