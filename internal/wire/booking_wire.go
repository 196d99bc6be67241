package wire

import (
	"net/http"

	"travel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	idempotent func(http.Handler) http.Handler,
) {
	// POST /book-trip - Validate offer against a live search and store the booking
	r.With(idempotent).Post("/book-trip", bookingHandler.BookTrip)

	// GET /get-bookings/{userId} - Bookings of one user, newest first
	r.Get("/get-bookings/{userId}", bookingHandler.GetUserBookings)

	r.Get("/get-booking/{bookingId}", bookingHandler.GetBooking)

	// GET /search-bookings?destination=LHR&start_date=2025-06-01&end_date=2025-06-30
	r.Get("/search-bookings", bookingHandler.SearchBookings)

	r.Put("/update-booking/{bookingId}", bookingHandler.UpdateBooking)
	r.Delete("/cancel-booking/{bookingId}", bookingHandler.CancelBooking)

	// GET /booking-itinerary/{bookingId} - PDF itinerary
	r.Get("/booking-itinerary/{bookingId}", bookingHandler.Itinerary)
}
