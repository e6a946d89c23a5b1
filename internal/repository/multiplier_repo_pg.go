package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/nattawatz/flightdesk/internal/domain"
)

type SeatMultiplierRepository interface {
	GetByClass(ctx context.Context, class domain.SeatClass) (*domain.SeatMultiplier, error)
	List(ctx context.Context) ([]domain.SeatMultiplier, error)
}

type PGSeatMultiplierRepository struct {
	store *Store
}

func NewSeatMultiplierRepository(store *Store) SeatMultiplierRepository {
	return &PGSeatMultiplierRepository{store: store}
}

func (r *PGSeatMultiplierRepository) GetByClass(ctx context.Context, class domain.SeatClass) (*domain.SeatMultiplier, error) {
	row := r.store.querier(ctx).QueryRow(ctx, `SELECT seat_class, multiplier FROM seat_class_multipliers WHERE seat_class=$1`, class)
	var m domain.SeatMultiplier
	if err := row.Scan(&m.Class, &m.Multiplier); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMultiplierNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PGSeatMultiplierRepository) List(ctx context.Context) ([]domain.SeatMultiplier, error) {
	rows, err := r.store.querier(ctx).Query(ctx, `SELECT seat_class, multiplier FROM seat_class_multipliers ORDER BY seat_class`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	multipliers := make([]domain.SeatMultiplier, 0)
	for rows.Next() {
		var m domain.SeatMultiplier
		if err := rows.Scan(&m.Class, &m.Multiplier); err != nil {
			return nil, err
		}
		multipliers = append(multipliers, m)
	}
	return multipliers, rows.Err()
}

var _ SeatMultiplierRepository = (*PGSeatMultiplierRepository)(nil)
