package wire

import (
	"travel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireFlight(r chi.Router, flightHandler *adaptor.FlightHandler) {
	// GET /search-flights?origin=JFK&destination=LHR&departure_date=2025-06-10&adults=1
	r.Get("/search-flights", flightHandler.SearchFlights)
}
