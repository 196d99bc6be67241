package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/document"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"
	"travel-booking/internal/event"
	"travel-booking/internal/gateway/amadeus"
	"travel-booking/pkg/metrics"
	"travel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	BookTrip(ctx context.Context, req *request.BookTripRequest) (*response.BookTripResponse, error)
	GetUserBookings(ctx context.Context, userID string) ([]response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	SearchBookings(ctx context.Context, req *request.SearchBookingsRequest) ([]response.BookingResponse, error)
	UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string) error
	Itinerary(ctx context.Context, bookingID string) ([]byte, string, error)
}

type bookingService struct {
	repo    *repository.Repository
	flights FlightSearcher
	events  event.Publisher
	log     *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	flights FlightSearcher,
	events event.Publisher,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:    repo,
		flights: flights,
		events:  events,
		log:     log.With(zap.String("service", "booking")),
	}
}

// BookTrip validates the selected offer against a live search and stores the
// matched offer verbatim. The fare used at payment time is read from that
// snapshot.
func (s *bookingService) BookTrip(ctx context.Context, req *request.BookTripRequest) (*response.BookTripResponse, error) {
	// 1. Parse ids and dates
	userID, err := parseID(req.UserID, "user")
	if err != nil {
		return nil, err
	}

	startDate, err := utils.ParseDate(req.DepartureDate)
	if err != nil {
		return nil, fmt.Errorf("%w: departure_date must be a date in format %s", ErrValidation, utils.DateLayout)
	}

	var endDate *time.Time
	if req.ReturnDate != "" {
		end, err := utils.ParseDate(req.ReturnDate)
		if err != nil {
			return nil, fmt.Errorf("%w: return_date must be a date in format %s", ErrValidation, utils.DateLayout)
		}
		if end.Before(startDate) {
			return nil, fmt.Errorf("%w: return_date is before departure_date", ErrValidation)
		}
		endDate = &end
	}

	// 2. User must exist
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", req.UserID, ErrNotFound)
	}

	// 3. Live search, first offer with the candidate id wins
	offers, err := s.flights.SearchOffers(ctx, amadeus.SearchParams{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		Adults:        1,
	})
	if err != nil {
		s.log.Error("Flight search failed", zap.Error(err), zap.String("user_id", req.UserID))
		return nil, upstreamError(err)
	}

	offer, ok := amadeus.FindOffer(offers, req.FlightOfferID)
	if !ok {
		metrics.OfferRejections.Inc()
		s.log.Warn("Offer not in search results",
			zap.String("flight_offer_id", req.FlightOfferID),
			zap.Int("offers", len(offers)),
		)
		return nil, fmt.Errorf("%w: offer %s not found for %s -> %s on %s",
			ErrInvalidOffer, req.FlightOfferID, req.Origin, req.Destination, startDate.Format(utils.DateLayout))
	}

	// 4. Persist with the offer frozen
	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:      userID,
		Origin:      req.Origin,
		Destination: req.Destination,
		StartDate:   startDate,
		EndDate:     endDate,
		FlightOffer: offer.Raw,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.BookingsCreated.Inc()
	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("flight_offer_id", offer.ID),
	)

	publish(ctx, s.events, bookingEvent(event.BookingCreated, booking), s.log)

	return &response.BookTripResponse{BookingID: booking.ID.String()}, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string) ([]response.BookingResponse, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) SearchBookings(ctx context.Context, req *request.SearchBookingsRequest) ([]response.BookingResponse, error) {
	filter := entity.BookingFilter{Destination: req.Destination}

	if req.StartDate != "" {
		from, err := utils.ParseDate(req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date must be a date in format %s", ErrValidation, utils.DateLayout)
		}
		filter.From = &from
	}

	if req.EndDate != "" {
		to, err := utils.ParseDate(req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date must be a date in format %s", ErrValidation, utils.DateLayout)
		}
		filter.To = &to
	}

	bookings, err := s.repo.Booking.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search bookings: %w", err)
	}

	return response.BookingsToResponse(bookings), nil
}

// UpdateBooking applies only the supplied fields. An empty end_date clears
// the return date.
func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if req.Origin != nil {
		booking.Origin = *req.Origin
	}
	if req.Destination != nil {
		booking.Destination = *req.Destination
	}
	if req.StartDate != nil {
		start, err := utils.ParseDate(*req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date must be a date in format %s", ErrValidation, utils.DateLayout)
		}
		booking.StartDate = start
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			booking.EndDate = nil
		} else {
			end, err := utils.ParseDate(*req.EndDate)
			if err != nil {
				return nil, fmt.Errorf("%w: end_date must be a date in format %s", ErrValidation, utils.DateLayout)
			}
			booking.EndDate = &end
		}
	}
	if booking.EndDate != nil && booking.EndDate.Before(booking.StartDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrValidation)
	}

	booking.UpdatedAt = time.Now()

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.log.Info("Booking updated", zap.String("booking_id", booking.ID.String()))
	publish(ctx, s.events, bookingEvent(event.BookingUpdated, booking), s.log)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// CancelBooking deletes the booking. Payments recorded against it are kept.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.repo.Booking.Delete(ctx, booking.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}
		return fmt.Errorf("cancel booking: %w", err)
	}

	s.log.Info("Booking cancelled", zap.String("booking_id", booking.ID.String()))
	publish(ctx, s.events, event.New(event.BookingCancelled, booking.UserID, booking.ID), s.log)

	return nil
}

func (s *bookingService) Itinerary(ctx context.Context, bookingID string) ([]byte, string, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.User.FindByID(ctx, booking.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("find traveller: %w", err)
	}

	offerID, segments := document.ParseOffer(booking.FlightOffer)
	itinerary := document.Itinerary{
		BookingID:   booking.ID.String(),
		Origin:      booking.Origin,
		Destination: booking.Destination,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		Currency:    entity.OfferCurrency(booking.FlightOffer),
		OfferID:     offerID,
		Segments:    segments,
		BookedAt:    booking.CreatedAt,
	}
	if user != nil {
		itinerary.Traveller = user.Name
		itinerary.Email = user.Email
	}
	if price, err := entity.TicketPrice(booking.FlightOffer); err == nil {
		itinerary.Fare = price
	}

	data, filename, err := document.RenderItinerary(itinerary)
	if err != nil {
		s.log.Error("Failed to render itinerary", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, "", err
	}

	return data, filename, nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := parseID(bookingID, "booking")
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	return booking, nil
}

// parseID treats ids as opaque: one that does not parse cannot exist.
func parseID(value, kind string) (uuid.UUID, error) {
	id, err := utils.ParseUUID(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %s: %w", kind, value, ErrNotFound)
	}
	return id, nil
}

func bookingEvent(eventType event.Type, booking *entity.Booking) event.Event {
	evt := event.New(eventType, booking.UserID, booking.ID)
	evt.Origin = booking.Origin
	evt.Destination = booking.Destination
	evt.StartDate = booking.StartDate.Format(utils.DateLayout)
	return evt
}
