package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nattawatz/flightdesk/internal/domain"
	"github.com/nattawatz/flightdesk/internal/kafka"
	"github.com/nattawatz/flightdesk/internal/logger"
	"github.com/nattawatz/flightdesk/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error)
	UpdateBooking(ctx context.Context, reservationID int64, input UpdateBookingInput) error
	CancelBooking(ctx context.Context, reservationID int64) error
	DeleteBooking(ctx context.Context, reservationID int64) error
	GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error)
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	ListPassengerCandidates(ctx context.Context, flightID int64) ([]domain.PassengerCandidate, error)
	ExpireStalePending(ctx context.Context) ([]int64, error)
}

type Cache interface {
	AcquireSeatHold(ctx context.Context, flightID int64, seatNumber string, ttl time.Duration) (bool, error)
	ReleaseSeatHold(ctx context.Context, flightID int64, seatNumber string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// notificationRetries bounds publish attempts for the notifications topic.
const notificationRetries = 3

type Pricer interface {
	Resolve(ctx context.Context, flightID int64, class domain.SeatClass) (int64, error)
}

// PassengerInfo carries the identity fields required before a reservation can
// be confirmed. MiddleName is the only optional field.
type PassengerInfo struct {
	FirstName      string
	MiddleName     string
	LastName       string
	Nationality    string
	BirthDate      time.Time
	PassportNumber string
	Address        string
}

func (p *PassengerInfo) validate() error {
	if p == nil {
		return fmt.Errorf("%w: passenger info is required to confirm", domain.ErrIncompletePassengerInfo)
	}
	switch {
	case p.FirstName == "":
		return fmt.Errorf("%w: first name", domain.ErrIncompletePassengerInfo)
	case p.LastName == "":
		return fmt.Errorf("%w: last name", domain.ErrIncompletePassengerInfo)
	case p.Nationality == "":
		return fmt.Errorf("%w: nationality", domain.ErrIncompletePassengerInfo)
	case p.BirthDate.IsZero():
		return fmt.Errorf("%w: birth date", domain.ErrIncompletePassengerInfo)
	case p.PassportNumber == "":
		return fmt.Errorf("%w: passport number", domain.ErrIncompletePassengerInfo)
	case p.Address == "":
		return fmt.Errorf("%w: address", domain.ErrIncompletePassengerInfo)
	}
	return nil
}

func (p *PassengerInfo) toPassenger(reservationID, seatID int64) *domain.Passenger {
	return &domain.Passenger{
		ReservationID:  reservationID,
		SeatID:         seatID,
		FirstName:      p.FirstName,
		MiddleName:     p.MiddleName,
		LastName:       p.LastName,
		Nationality:    p.Nationality,
		BirthDate:      p.BirthDate,
		PassportNumber: p.PassportNumber,
		Address:        p.Address,
	}
}

type CreateBookingInput struct {
	UserID        int64
	FlightID      int64
	SeatNumber    string
	Status        domain.ReservationStatus
	BookingDate   time.Time
	PaymentMethod domain.PaymentMethod
	PaymentDate   time.Time
	Passenger     *PassengerInfo
}

type UpdateBookingInput struct {
	UserID      int64
	FlightID    int64
	SeatNumber  string
	Status      domain.ReservationStatus
	BookingDate time.Time
	Passenger   *PassengerInfo
}

type BookingResult struct {
	ReservationID int64
	Reference     string
	SeatID        int64
	AmountCents   int64
}

type BookingService struct {
	tx                 repository.TxManager
	reservations       repository.ReservationRepository
	payments           repository.PaymentRepository
	passengers         repository.PassengerRepository
	seats              repository.SeatRepository
	users              repository.UserRepository
	pricer             Pricer
	cache              Cache
	producer           Producer
	reservationsTopic  string
	notificationsTopic string
	seatHoldTTL        time.Duration
	pendingTTL         time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	tx repository.TxManager,
	reservations repository.ReservationRepository,
	payments repository.PaymentRepository,
	passengers repository.PassengerRepository,
	seats repository.SeatRepository,
	users repository.UserRepository,
	pricer Pricer,
	cache Cache,
	producer Producer,
	reservationsTopic string,
	seatHoldTTL, pendingTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		tx:                tx,
		reservations:      reservations,
		payments:          payments,
		passengers:        passengers,
		seats:             seats,
		users:             users,
		pricer:            pricer,
		cache:             cache,
		producer:          producer,
		reservationsTopic: reservationsTopic,
		seatHoldTTL:       seatHoldTTL,
		pendingTTL:        pendingTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking claims a seat, prices the booking and writes the reservation,
// its payment and, for confirmed bookings, the passenger record as one
// transaction.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error) {
	if err := validateBookingFields(input.UserID, input.FlightID, input.SeatNumber, input.Status, input.BookingDate); err != nil {
		return nil, err
	}
	if input.Status == domain.ReservationStatusCanceled {
		return nil, fmt.Errorf("%w: a booking cannot be created as Canceled", domain.ErrValidation)
	}
	if input.Status == domain.ReservationStatusConfirmed {
		if err := input.Passenger.validate(); err != nil {
			return nil, err
		}
	}

	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	held := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSeatHold(ctx, input.FlightID, input.SeatNumber, s.seatHoldTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrSeatUnavailable
		}
		held = true
	}

	var result BookingResult
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		seat, err := s.seats.FindByNumber(ctx, input.FlightID, input.SeatNumber)
		if err != nil {
			return err
		}
		if err := s.seats.Claim(ctx, seat.ID); err != nil {
			return err
		}

		amount, err := s.pricer.Resolve(ctx, input.FlightID, seat.Class)
		if err != nil {
			return err
		}

		res := &domain.Reservation{
			Reference:   uuid.NewString(),
			UserID:      input.UserID,
			FlightID:    input.FlightID,
			SeatID:      seat.ID,
			Status:      input.Status,
			BookingDate: input.BookingDate,
		}
		if err := s.reservations.Insert(ctx, res); err != nil {
			return err
		}

		payStatus := domain.PaymentStatusPending
		if input.Status == domain.ReservationStatusConfirmed {
			payStatus = domain.PaymentStatusSuccessful
		}
		method := input.PaymentMethod
		if method == "" {
			method = domain.PaymentMethodCreditCard
		}
		payDate := input.PaymentDate
		if payDate.IsZero() {
			payDate = input.BookingDate
		}
		payment := &domain.Payment{
			ReservationID: res.ID,
			UserID:        input.UserID,
			AmountCents:   amount,
			Method:        method,
			PaymentDate:   payDate,
			Status:        payStatus,
		}
		if err := s.payments.Insert(ctx, payment); err != nil {
			return err
		}

		if input.Status == domain.ReservationStatusConfirmed {
			if err := s.passengers.Upsert(ctx, input.Passenger.toPassenger(res.ID, seat.ID)); err != nil {
				return err
			}
		}

		result = BookingResult{
			ReservationID: res.ID,
			Reference:     res.Reference,
			SeatID:        seat.ID,
			AmountCents:   amount,
		}
		return nil
	})
	if err != nil {
		if held {
			_ = s.cache.ReleaseSeatHold(ctx, input.FlightID, input.SeatNumber)
		}
		return nil, err
	}

	s.publish(ctx, "reservation_created", kafka.ReservationEvent{
		Reference:     result.Reference,
		ReservationID: result.ReservationID,
		UserID:        input.UserID,
		FlightID:      input.FlightID,
		SeatID:        result.SeatID,
		Status:        string(input.Status),
		AmountCents:   result.AmountCents,
	})
	return &result, nil
}

// UpdateBooking moves a reservation to a new status, re-seating and re-pricing
// it as needed. The reservation, payment, passenger and seat rows change as
// one transaction.
func (s *BookingService) UpdateBooking(ctx context.Context, reservationID int64, input UpdateBookingInput) error {
	if err := validateBookingFields(input.UserID, input.FlightID, input.SeatNumber, input.Status, input.BookingDate); err != nil {
		return err
	}
	if input.Status == domain.ReservationStatusConfirmed {
		if err := input.Passenger.validate(); err != nil {
			return err
		}
	}

	var event kafka.ReservationEvent
	var freedFlightID int64
	var freedSeatNumber string
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		payment, err := s.payments.GetByReservation(ctx, reservationID)
		if err != nil && !errors.Is(err, domain.ErrPaymentNotFound) {
			return err
		}

		if !current.Status.CanTransitionTo(input.Status) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, current.Status, input.Status)
		}
		if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
			return err
		}

		seat, err := s.seats.FindByNumber(ctx, input.FlightID, input.SeatNumber)
		if err != nil {
			return err
		}

		// A reservation keeps its seat across an update, so only a different
		// seat (or a reactivation) goes through the availability gate.
		if input.Status.Active() {
			switch {
			case seat.ID != current.SeatID:
				if err := s.seats.Claim(ctx, seat.ID); err != nil {
					return err
				}
				if current.Status.Active() {
					if err := s.releaseSeat(ctx, current, &freedFlightID, &freedSeatNumber); err != nil {
						return err
					}
				}
			case !current.Status.Active():
				if err := s.seats.Claim(ctx, seat.ID); err != nil {
					return err
				}
			}
		} else if current.Status.Active() {
			if err := s.releaseSeat(ctx, current, &freedFlightID, &freedSeatNumber); err != nil {
				return err
			}
		}

		amount, err := s.pricer.Resolve(ctx, input.FlightID, seat.Class)
		if err != nil {
			return err
		}

		current.UserID = input.UserID
		current.FlightID = input.FlightID
		current.SeatID = seat.ID
		current.Status = input.Status
		current.BookingDate = input.BookingDate
		if err := s.reservations.Update(ctx, current); err != nil {
			return err
		}

		if err := s.applyPaymentTransition(ctx, current, payment, amount); err != nil {
			return err
		}

		if input.Status == domain.ReservationStatusConfirmed {
			if err := s.passengers.Upsert(ctx, input.Passenger.toPassenger(reservationID, seat.ID)); err != nil {
				return err
			}
		} else {
			if err := s.passengers.DeleteByReservation(ctx, reservationID); err != nil {
				return err
			}
		}

		event = kafka.ReservationEvent{
			Reference:     current.Reference,
			ReservationID: current.ID,
			UserID:        current.UserID,
			FlightID:      current.FlightID,
			SeatID:        current.SeatID,
			Status:        string(current.Status),
			AmountCents:   amount,
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.cache != nil && freedSeatNumber != "" {
		_ = s.cache.ReleaseSeatHold(ctx, freedFlightID, freedSeatNumber)
	}
	s.publish(ctx, "reservation_updated", event)
	return nil
}

// releaseSeat frees the reservation's current seat and records it so the
// caller can drop its advisory hold once the transaction commits.
func (s *BookingService) releaseSeat(ctx context.Context, current *domain.Reservation, freedFlightID *int64, freedSeatNumber *string) error {
	if err := s.seats.Release(ctx, current.SeatID); err != nil {
		return err
	}
	old, err := s.seats.GetByID(ctx, current.SeatID)
	if err != nil {
		return err
	}
	*freedFlightID = current.FlightID
	*freedSeatNumber = old.SeatNumber
	return nil
}

// applyPaymentTransition keeps the 1:1 payment row in step with the
// reservation. A Successful payment never loses its status and survives
// cancellation; any other payment follows the reservation or is discarded.
func (s *BookingService) applyPaymentTransition(ctx context.Context, res *domain.Reservation, payment *domain.Payment, amount int64) error {
	if res.Status == domain.ReservationStatusCanceled {
		if payment != nil && payment.Status != domain.PaymentStatusSuccessful {
			return s.payments.DeleteByReservation(ctx, res.ID)
		}
		return nil
	}

	target := domain.PaymentStatusPending
	if res.Status == domain.ReservationStatusConfirmed {
		target = domain.PaymentStatusSuccessful
	}

	if payment == nil {
		return s.payments.Insert(ctx, &domain.Payment{
			ReservationID: res.ID,
			UserID:        res.UserID,
			AmountCents:   amount,
			Method:        domain.PaymentMethodCreditCard,
			PaymentDate:   res.BookingDate,
			Status:        target,
		})
	}

	payment.UserID = res.UserID
	payment.AmountCents = amount
	if payment.Status != domain.PaymentStatusSuccessful {
		payment.Status = target
	}
	return s.payments.Update(ctx, payment)
}

// CancelBooking is the dedicated cancellation path: no field resubmission.
// Cancelling an already-canceled reservation is a no-op.
func (s *BookingService) CancelBooking(ctx context.Context, reservationID int64) error {
	var event kafka.ReservationEvent
	var canceled bool
	var flightID int64
	var seatNumber string

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		res, err := s.reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.Status == domain.ReservationStatusCanceled {
			return nil
		}

		payment, err := s.payments.GetByReservation(ctx, reservationID)
		if err != nil && !errors.Is(err, domain.ErrPaymentNotFound) {
			return err
		}

		if err := s.reservations.UpdateStatus(ctx, reservationID, domain.ReservationStatusCanceled); err != nil {
			return err
		}
		if err := s.passengers.DeleteByReservation(ctx, reservationID); err != nil {
			return err
		}
		if payment != nil && payment.Status != domain.PaymentStatusSuccessful {
			if err := s.payments.DeleteByReservation(ctx, reservationID); err != nil {
				return err
			}
		}
		if err := s.seats.Release(ctx, res.SeatID); err != nil {
			return err
		}

		seat, err := s.seats.GetByID(ctx, res.SeatID)
		if err != nil {
			return err
		}
		flightID = res.FlightID
		seatNumber = seat.SeatNumber
		canceled = true
		event = kafka.ReservationEvent{
			Reference:     res.Reference,
			ReservationID: res.ID,
			UserID:        res.UserID,
			FlightID:      res.FlightID,
			SeatID:        res.SeatID,
			Status:        string(domain.ReservationStatusCanceled),
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !canceled {
		return nil
	}

	if s.cache != nil {
		_ = s.cache.ReleaseSeatHold(ctx, flightID, seatNumber)
	}
	s.publish(ctx, "reservation_cancelled", event)
	return nil
}

// DeleteBooking hard-deletes a reservation with its payment and passenger.
// Confirmed or paid bookings must go through cancellation first so the audit
// trail survives.
func (s *BookingService) DeleteBooking(ctx context.Context, reservationID int64) error {
	var event kafka.ReservationEvent
	var freedFlightID int64
	var freedSeatNumber string
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		res, err := s.reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		payment, err := s.payments.GetByReservation(ctx, reservationID)
		if err != nil && !errors.Is(err, domain.ErrPaymentNotFound) {
			return err
		}
		if res.Status == domain.ReservationStatusConfirmed || (payment != nil && payment.Status == domain.PaymentStatusSuccessful) {
			return domain.ErrMustCancelFirst
		}

		// Children before parent.
		if err := s.passengers.DeleteByReservation(ctx, reservationID); err != nil {
			return err
		}
		if err := s.payments.DeleteByReservation(ctx, reservationID); err != nil {
			return err
		}
		if err := s.reservations.Delete(ctx, reservationID); err != nil {
			return err
		}
		if res.Status.Active() {
			if err := s.releaseSeat(ctx, res, &freedFlightID, &freedSeatNumber); err != nil {
				return err
			}
		}

		event = kafka.ReservationEvent{
			Reference:     res.Reference,
			ReservationID: res.ID,
			UserID:        res.UserID,
			FlightID:      res.FlightID,
			SeatID:        res.SeatID,
			Status:        string(res.Status),
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.cache != nil && freedSeatNumber != "" {
		_ = s.cache.ReleaseSeatHold(ctx, freedFlightID, freedSeatNumber)
	}
	s.publish(ctx, "reservation_deleted", event)
	return nil
}

func (s *BookingService) GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	return s.reservations.GetByID(ctx, reservationID)
}

func (s *BookingService) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	return s.reservations.List(ctx)
}

func (s *BookingService) ListPassengerCandidates(ctx context.Context, flightID int64) ([]domain.PassengerCandidate, error) {
	return s.reservations.ListPassengerCandidates(ctx, flightID)
}

// ExpireStalePending cancels pending reservations older than the pending TTL
// whose payment never settled, through the normal cancellation path.
func (s *BookingService) ExpireStalePending(ctx context.Context) ([]int64, error) {
	cutoff := time.Now().Add(-s.pendingTTL)
	ids, err := s.reservations.ListStalePending(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	canceled := make([]int64, 0, len(ids))
	for _, id := range ids {
		if err := s.CancelBooking(ctx, id); err != nil {
			logger.ErrorLogger.Errorf("expire reservation %d: %v", id, err)
			continue
		}
		canceled = append(canceled, id)
	}
	return canceled, nil
}

func validateBookingFields(userID, flightID int64, seatNumber string, status domain.ReservationStatus, bookingDate time.Time) error {
	switch {
	case userID <= 0:
		return fmt.Errorf("%w: userID is required", domain.ErrValidation)
	case flightID <= 0:
		return fmt.Errorf("%w: flightID is required", domain.ErrValidation)
	case seatNumber == "":
		return fmt.Errorf("%w: seatNumber is required", domain.ErrValidation)
	case bookingDate.IsZero():
		return fmt.Errorf("%w: bookingDate is required", domain.ErrValidation)
	case !status.Valid():
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, event kafka.ReservationEvent) {
	if s.producer == nil || s.reservationsTopic == "" {
		return
	}
	event.Type = eventType
	event.OccurredAt = time.Now()

	if err := s.producer.Publish(ctx, s.reservationsTopic, event.Reference, event); err != nil {
		logger.ErrorLogger.Errorf("publish %s event for reservation %s: %v", eventType, event.Reference, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, event.Reference, event, notificationRetries); err != nil {
			logger.ErrorLogger.Errorf("publish %s notification for reservation %s: %v", eventType, event.Reference, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
