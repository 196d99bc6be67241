package event

import (
	"context"
	"fmt"

	"travel-booking/internal/data/repository"

	"go.uber.org/zap"
)

// Notifier turns booking events into customer notifications. Delivery is a
// structured log line carrying the recipient and message.
type Notifier struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewNotifier(users repository.UserRepository, log *zap.Logger) *Notifier {
	return &Notifier{
		users: users,
		log:   log.With(zap.String("component", "notifier")),
	}
}

func (n *Notifier) Handle(ctx context.Context, evt Event) error {
	user, err := n.users.FindByID(ctx, evt.UserID)
	if err != nil {
		return fmt.Errorf("find recipient %s: %w", evt.UserID.String(), err)
	}
	if user == nil {
		n.log.Warn("Recipient not found, dropping notification",
			zap.String("user_id", evt.UserID.String()),
			zap.String("type", string(evt.Type)),
		)
		return nil
	}

	n.log.Info("Notification sent",
		zap.String("to", user.Email),
		zap.String("type", string(evt.Type)),
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("message", Message(user.Name, evt)),
	)
	return nil
}

// Message renders the customer-facing text for an event.
func Message(name string, evt Event) string {
	switch evt.Type {
	case BookingCreated:
		return fmt.Sprintf("Hi %s, your trip %s to %s on %s is booked.", name, evt.Origin, evt.Destination, evt.StartDate)
	case BookingUpdated:
		return fmt.Sprintf("Hi %s, your booking is now %s to %s on %s.", name, evt.Origin, evt.Destination, evt.StartDate)
	case BookingCancelled:
		return fmt.Sprintf("Hi %s, your booking %s was cancelled.", name, evt.BookingID.String())
	case PaymentCreated:
		return fmt.Sprintf("Hi %s, we received your payment of %s %s.", name, evt.Amount, evt.Currency)
	default:
		return fmt.Sprintf("Hi %s, there is an update on booking %s.", name, evt.BookingID.String())
	}
}
