package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingUpdated   Type = "booking.updated"
	BookingCancelled Type = "booking.cancelled"
	PaymentCreated   Type = "payment.created"
)

// Event is a booking lifecycle fact published after the record store write.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Type        Type      `json:"type"`
	OccurredAt  time.Time `json:"occurred_at"`
	UserID      uuid.UUID `json:"user_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	PaymentID   string    `json:"payment_id,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	Destination string    `json:"destination,omitempty"`
	StartDate   string    `json:"start_date,omitempty"`
	Amount      string    `json:"amount,omitempty"`
	Currency    string    `json:"currency,omitempty"`
}

func New(eventType Type, userID, bookingID uuid.UUID) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		UserID:     userID,
		BookingID:  bookingID,
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
