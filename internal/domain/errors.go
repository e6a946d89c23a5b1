package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrFlightNotFound      = errors.New("flight not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSeatNotFound        = errors.New("seat not found for this flight")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPassengerNotFound   = errors.New("passenger not found")
	ErrMultiplierNotFound  = errors.New("no multiplier for seat class")
)

var (
	ErrSeatUnavailable = errors.New("seat is not available")
	ErrMustCancelFirst = errors.New("reservation must be canceled before deletion")
)

var (
	ErrValidation              = errors.New("validation error")
	ErrIncompletePassengerInfo = errors.New("incomplete passenger info")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
