package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "Pending"
	PaymentStatusSuccessful PaymentStatus = "Successful"
	PaymentStatusFailed     PaymentStatus = "Failed"
)

// A successful payment is terminal: it is kept for refund bookkeeping and is
// never reverted by booking updates or cancellation.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusPending, PaymentStatusSuccessful, PaymentStatusFailed},
	PaymentStatusFailed:     {PaymentStatusPending, PaymentStatusSuccessful, PaymentStatusFailed},
	PaymentStatusSuccessful: {PaymentStatusSuccessful},
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	for _, t := range paymentTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "Credit Card"
	PaymentMethodPaypal       PaymentMethod = "Paypal"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
)

// Payment is the financial record tied 1:1 to a reservation. The amount is
// always server-computed from the flight base price and seat-class multiplier.
type Payment struct {
	ID            int64
	ReservationID int64
	UserID        int64
	AmountCents   int64
	Method        PaymentMethod
	PaymentDate   time.Time
	Status        PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
