package domain

type SeatClass string

const (
	SeatClassEconomy    SeatClass = "Economy"
	SeatClassBusiness   SeatClass = "Business"
	SeatClassFirstClass SeatClass = "FirstClass"
)

type Seat struct {
	ID         int64
	FlightID   int64
	SeatNumber string
	Class      SeatClass
	Available  bool
	CheckedIn  bool
}

// SeatMultiplier maps a seat class to the pricing factor applied to the
// flight base price.
type SeatMultiplier struct {
	Class      SeatClass
	Multiplier float64
}
