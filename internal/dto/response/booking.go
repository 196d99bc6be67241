package response

import (
	"encoding/json"
	"time"

	"travel-booking/internal/data/entity"
)

type BookTripResponse struct {
	BookingID string `json:"booking_id"`
}

type BookingResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	StartDate   string          `json:"start_date"`
	EndDate     *string         `json:"end_date"`
	FlightOffer json.RawMessage `json:"flight_offer"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:          booking.ID.String(),
		UserID:      booking.UserID.String(),
		Origin:      booking.Origin,
		Destination: booking.Destination,
		StartDate:   booking.StartDate.Format(dateLayout),
		FlightOffer: booking.FlightOffer,
		CreatedAt:   booking.CreatedAt,
		UpdatedAt:   booking.UpdatedAt,
	}

	if booking.EndDate != nil {
		end := booking.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}

	return resp
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}

const dateLayout = "2006-01-02"
