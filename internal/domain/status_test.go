package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{ReservationStatusPending, ReservationStatusConfirmed, true},
		{ReservationStatusPending, ReservationStatusCanceled, true},
		{ReservationStatusPending, ReservationStatusPending, true},
		{ReservationStatusConfirmed, ReservationStatusPending, true},
		{ReservationStatusConfirmed, ReservationStatusCanceled, true},
		{ReservationStatusCanceled, ReservationStatusPending, true},
		{ReservationStatusCanceled, ReservationStatusConfirmed, false},
		{ReservationStatusCanceled, ReservationStatusCanceled, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestReservationStatus_Valid(t *testing.T) {
	assert.True(t, ReservationStatusPending.Valid())
	assert.True(t, ReservationStatusConfirmed.Valid())
	assert.True(t, ReservationStatusCanceled.Valid())
	assert.False(t, ReservationStatus("Booked").Valid())
	assert.False(t, ReservationStatus("").Valid())
}

func TestReservationStatus_Active(t *testing.T) {
	assert.True(t, ReservationStatusPending.Active())
	assert.True(t, ReservationStatusConfirmed.Active())
	assert.False(t, ReservationStatusCanceled.Active())
}

func TestPaymentStatus_SuccessfulIsTerminal(t *testing.T) {
	assert.True(t, PaymentStatusSuccessful.CanTransitionTo(PaymentStatusSuccessful))
	assert.False(t, PaymentStatusSuccessful.CanTransitionTo(PaymentStatusPending))
	assert.False(t, PaymentStatusSuccessful.CanTransitionTo(PaymentStatusFailed))
}

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusSuccessful))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, PaymentStatusFailed.CanTransitionTo(PaymentStatusPending))
	assert.True(t, PaymentStatusFailed.CanTransitionTo(PaymentStatusSuccessful))
}
