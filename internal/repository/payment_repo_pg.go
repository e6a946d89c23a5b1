package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/nattawatz/flightdesk/internal/domain"
)

type PaymentRepository interface {
	Insert(ctx context.Context, p *domain.Payment) error
	GetByReservation(ctx context.Context, reservationID int64) (*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
	DeleteByReservation(ctx context.Context, reservationID int64) error
}

type PGPaymentRepository struct {
	store *Store
}

func NewPaymentRepository(store *Store) PaymentRepository {
	return &PGPaymentRepository{store: store}
}

func (r *PGPaymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	return r.store.querier(ctx).QueryRow(ctx, `INSERT INTO payments (reservation_id, user_id, amount_cents, method, payment_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		p.ReservationID, p.UserID, p.AmountCents, p.Method, p.PaymentDate, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PGPaymentRepository) GetByReservation(ctx context.Context, reservationID int64) (*domain.Payment, error) {
	row := r.store.querier(ctx).QueryRow(ctx, `SELECT id, reservation_id, user_id, amount_cents, method, payment_date, status, created_at, updated_at
		FROM payments WHERE reservation_id=$1`, reservationID)
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.ReservationID, &p.UserID, &p.AmountCents, &p.Method, &p.PaymentDate, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	cmd, err := r.store.querier(ctx).Exec(ctx, `UPDATE payments
		SET user_id=$1, amount_cents=$2, method=$3, payment_date=$4, status=$5, updated_at=now()
		WHERE reservation_id=$6`,
		p.UserID, p.AmountCents, p.Method, p.PaymentDate, p.Status, p.ReservationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PGPaymentRepository) DeleteByReservation(ctx context.Context, reservationID int64) error {
	_, err := r.store.querier(ctx).Exec(ctx, `DELETE FROM payments WHERE reservation_id=$1`, reservationID)
	return err
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
