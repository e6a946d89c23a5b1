package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "Pending"
	ReservationStatusConfirmed ReservationStatus = "Confirmed"
	ReservationStatusCanceled  ReservationStatus = "Canceled"
)

// reservationTransitions lists the allowed target statuses per current status.
// A canceled reservation has released its seat, so it can only be reactivated
// to Pending and must re-claim a seat on the way.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCanceled},
	ReservationStatusConfirmed: {ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCanceled},
	ReservationStatusCanceled:  {ReservationStatusCanceled, ReservationStatusPending},
}

func (s ReservationStatus) Valid() bool {
	_, ok := reservationTransitions[s]
	return ok
}

// Active reports whether the reservation holds its seat.
func (s ReservationStatus) Active() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, t := range reservationTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID          int64
	Reference   string
	UserID      int64
	FlightID    int64
	SeatID      int64
	Status      ReservationStatus
	BookingDate time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PassengerCandidate is a confirmed reservation that still has no passenger
// record, surfaced so an operator can complete it manually.
type PassengerCandidate struct {
	ReservationID int64
	SeatID        int64
	SeatNumber    string
}
