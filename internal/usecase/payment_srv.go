package usecase

import (
	"context"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"
	"travel-booking/internal/event"
	"travel-booking/pkg/metrics"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

// amounts are stored as NUMERIC(12, 2) and charged in cents
const centDigits = 2

type PaymentService interface {
	MakePayment(ctx context.Context, req *request.MakePaymentRequest) (*response.PaymentResponse, error)
}

type paymentService struct {
	repo     *repository.Repository
	payments PaymentProcessor
	events   event.Publisher
	log      *zap.Logger
}

func NewPaymentService(
	repo *repository.Repository,
	payments PaymentProcessor,
	events event.Publisher,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:     repo,
		payments: payments,
		events:   events,
		log:      log.With(zap.String("service", "payment")),
	}
}

// MakePayment reconciles amount against the fare frozen in the booking, then
// opens a payment intent and records it. If the record cannot be stored the
// intent is cancelled so no charge is left without a local payment.
func (s *paymentService) MakePayment(ctx context.Context, req *request.MakePaymentRequest) (*response.PaymentResponse, error) {
	// 1. Amount must be a positive whole number of cents
	if req.Amount == nil || !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}
	amount := *req.Amount
	if !amount.Equal(amount.Truncate(centDigits)) {
		s.log.Warn("Payment amount below cent precision", zap.String("amount", amount.String()))
		return nil, fmt.Errorf("%w: amount %s has more than %d decimal places", ErrValidation, amount.String(), centDigits)
	}
	amount = amount.Truncate(centDigits)

	userID, err := parseID(req.UserID, "user")
	if err != nil {
		return nil, err
	}
	bookingID, err := parseID(req.BookingID, "booking")
	if err != nil {
		return nil, err
	}

	// 2. User and booking must exist, and the booking must belong to the user
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", req.UserID, ErrNotFound)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, ErrNotFound)
	}

	// 3. Reconcile against the frozen fare; equal is enough
	price, err := entity.TicketPrice(booking.FlightOffer)
	if err != nil {
		s.log.Error("Booking has no readable fare", zap.Error(err), zap.String("booking_id", req.BookingID))
		return nil, fmt.Errorf("%w: %w", ErrInvalidOffer, err)
	}

	if amount.LessThan(price) {
		s.log.Warn("Payment below ticket price",
			zap.String("booking_id", req.BookingID),
			zap.String("amount", amount.String()),
			zap.String("price", price.String()),
		)
		return nil, fmt.Errorf("%w: amount %s is less than ticket price %s",
			ErrInsufficientAmount, amount.String(), price.String())
	}

	// 4. Payment intent
	intent, err := s.payments.CreateIntent(ctx, amount, entity.CurrencyUSD)
	if err != nil {
		return nil, upstreamError(err)
	}

	// 5. Record the payment, cancelling the intent if that fails
	payment := &entity.Payment{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: time.Now(),
		},
		UserID:          userID,
		BookingID:       bookingID,
		Amount:          amount,
		Currency:        entity.CurrencyUSD,
		PaymentIntentID: intent.ID,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		s.log.Error("Failed to record payment, cancelling intent",
			zap.Error(err),
			zap.String("payment_intent_id", intent.ID),
			zap.String("booking_id", req.BookingID),
		)
		if cancelErr := s.payments.CancelIntent(context.WithoutCancel(ctx), intent.ID); cancelErr != nil {
			s.log.Error("Payment intent left without local record",
				zap.Error(cancelErr),
				zap.String("payment_intent_id", intent.ID),
			)
		}
		return nil, fmt.Errorf("record payment: %w", err)
	}

	metrics.PaymentsRecorded.Inc()
	s.log.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", req.BookingID),
		zap.String("payment_intent_id", intent.ID),
	)

	evt := event.New(event.PaymentCreated, userID, bookingID)
	evt.PaymentID = payment.ID.String()
	evt.Amount = amount.String()
	evt.Currency = payment.Currency
	publish(ctx, s.events, evt, s.log)

	return &response.PaymentResponse{
		PaymentID:    payment.ID.String(),
		ClientSecret: intent.ClientSecret,
	}, nil
}
