package adaptor

import (
	"encoding/json"
	"net/http"

	"travel-booking/internal/dto/request"
	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// BookTrip handles POST /book-trip
func (h *BookingHandler) BookTrip(w http.ResponseWriter, r *http.Request) {
	var req request.BookTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.BookTrip(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "book trip")
		return
	}

	utils.ResponseCreated(w, "Trip booked successfully", booking)
}

// GetUserBookings handles GET /get-bookings/{userId}
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.GetUserBookings(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /get-booking/{bookingId}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBooking(r.Context(), chi.URLParam(r, "bookingId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// SearchBookings handles GET /search-bookings
func (h *BookingHandler) SearchBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.SearchBookingsRequest{
		Destination: query.Get("destination"),
		StartDate:   query.Get("start_date"),
		EndDate:     query.Get("end_date"),
	}

	bookings, err := h.service.SearchBookings(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "search bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// UpdateBooking handles PUT /update-booking/{bookingId}
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), chi.URLParam(r, "bookingId"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking")
		return
	}

	utils.ResponseSuccess(w, "Booking updated successfully", booking)
}

// CancelBooking handles DELETE /cancel-booking/{bookingId}
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelBooking(r.Context(), chi.URLParam(r, "bookingId")); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled successfully", nil)
}

// Itinerary handles GET /booking-itinerary/{bookingId}
func (h *BookingHandler) Itinerary(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.service.Itinerary(r.Context(), chi.URLParam(r, "bookingId"))
	if err != nil {
		handleServiceError(w, h.log, err, "render itinerary")
		return
	}

	utils.ResponseFile(w, "application/pdf", filename, data)
}
