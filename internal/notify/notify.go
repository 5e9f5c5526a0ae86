package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/trusttrip/backend/internal/kafka"
)

// Sender delivers booking confirmations. The demo implementation just logs;
// a real one would send email or a wallet push message.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(_ context.Context, event kafka.BookingEvent) error {
	logrus.WithFields(logrus.Fields{
		"wallet":      event.WalletAddress,
		"booking_id":  event.BookingID,
		"provider":    event.Provider,
		"destination": event.Destination,
		"price":       event.Price,
	}).Infof("booking confirmation: %s to %s booked with %s", event.BookingType, event.Destination, event.Provider)
	return nil
}
