package domain

import "time"

type FlightStatus string

const (
	FlightStatusPending   FlightStatus = "Pending"
	FlightStatusDelayed   FlightStatus = "Delayed"
	FlightStatusCompleted FlightStatus = "Completed"
	FlightStatusCanceled  FlightStatus = "Canceled"
)

// Flight is read-only from the booking lifecycle's point of view; flight
// management lives in its own surface.
type Flight struct {
	ID              int64
	AirlineID       int64
	AircraftID      int64
	Departure       string
	Destination     string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	StopOver        string
	DurationMinutes int
	BasePriceCents  int64
	Status          FlightStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
