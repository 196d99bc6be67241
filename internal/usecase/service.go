package usecase

import (
	"context"
	"time"

	"travel-booking/internal/data/repository"
	"travel-booking/internal/event"
	"travel-booking/internal/gateway/amadeus"
	"travel-booking/internal/gateway/stripe"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// FlightSearcher is the live flight-offer search.
type FlightSearcher interface {
	SearchOffers(ctx context.Context, params amadeus.SearchParams) ([]amadeus.Offer, error)
}

// PaymentProcessor creates and cancels payment intents.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (*stripe.Intent, error)
	CancelIntent(ctx context.Context, id string) error
}

type Service struct {
	Auth    AuthService
	Booking BookingService
	Payment PaymentService
	Flight  FlightService
}

func NewService(
	repo *repository.Repository,
	flights FlightSearcher,
	payments PaymentProcessor,
	events event.Publisher,
	log *zap.Logger,
) *Service {
	if events == nil {
		events = event.Nop{}
	}

	return &Service{
		Auth:    NewAuthService(repo.User, log),
		Booking: NewBookingService(repo, flights, events, log),
		Payment: NewPaymentService(repo, payments, events, log),
		Flight:  NewFlightService(flights, log),
	}
}

// publish sends evt after the write it describes has committed. A broker
// failure is logged and never fails the request.
func publish(ctx context.Context, events event.Publisher, evt event.Event, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := events.Publish(ctx, evt); err != nil {
		log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("type", string(evt.Type)),
			zap.String("booking_id", evt.BookingID.String()),
		)
	}
}
