package domain

import "time"

// Passenger is the identity record materialized only while its reservation is
// confirmed.
type Passenger struct {
	ID             int64
	ReservationID  int64
	SeatID         int64
	FirstName      string
	MiddleName     string
	LastName       string
	Nationality    string
	BirthDate      time.Time
	PassportNumber string
	Address        string
}
