package email

import (
	"context"

	"github.com/nattawatz/flightdesk/internal/kafka"
	"github.com/nattawatz/flightdesk/internal/logger"
)

// Sender is a stand-in notification channel: it logs what a real mailer would
// send for each reservation event.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	logger.InfoLogger.Infof("notify user %d: reservation %s is %s (flight %d, seat %d)",
		event.UserID, event.Reference, event.Type, event.FlightID, event.SeatID)
	return nil
}
