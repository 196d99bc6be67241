package usecase

import (
	"context"
	"fmt"
	"strings"

	"travel-booking/internal/dto/request"
	"travel-booking/internal/gateway/amadeus"

	"go.uber.org/zap"
)

type FlightService interface {
	SearchFlights(ctx context.Context, req *request.SearchFlightsRequest) ([]amadeus.Offer, error)
}

type flightService struct {
	flights FlightSearcher
	log     *zap.Logger
}

func NewFlightService(flights FlightSearcher, log *zap.Logger) FlightService {
	return &flightService{
		flights: flights,
		log:     log.With(zap.String("service", "flight")),
	}
}

func (s *flightService) SearchFlights(ctx context.Context, req *request.SearchFlightsRequest) ([]amadeus.Offer, error) {
	var missing []string
	if req.Origin == "" {
		missing = append(missing, "origin")
	}
	if req.Destination == "" {
		missing = append(missing, "destination")
	}
	if req.DepartureDate == "" {
		missing = append(missing, "departure_date")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, strings.Join(missing, ", "))
	}

	offers, err := s.flights.SearchOffers(ctx, amadeus.SearchParams{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		Adults:        req.Adults,
	})
	if err != nil {
		s.log.Error("Flight search failed", zap.Error(err))
		return nil, upstreamError(err)
	}

	return offers, nil
}
