package usecase

import (
	"context"
	"testing"

	"travel-booking/internal/dto/request"
	"travel-booking/internal/gateway/amadeus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFlightService_SearchFlights(t *testing.T) {
	f := newFixture()

	f.flights.On("SearchOffers", mock.Anything, amadeus.SearchParams{
		Origin: "JFK", Destination: "LHR", DepartureDate: "2025-06-10", Adults: 2,
	}).Return(mustOffers(offerOne, offerTwo), nil).Once()

	offers, err := f.svc.Flight.SearchFlights(context.Background(), &request.SearchFlightsRequest{
		Origin: "JFK", Destination: "LHR", DepartureDate: "2025-06-10", Adults: 2,
	})
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "1", offers[0].ID)
	f.flights.AssertExpectations(t)
}

func TestFlightService_MissingParameters(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Flight.SearchFlights(context.Background(), &request.SearchFlightsRequest{Origin: "JFK"})
	require.ErrorIs(t, err, ErrMissingParameter)
	assert.Contains(t, err.Error(), "destination, departure_date")
	f.flights.AssertNotCalled(t, "SearchOffers", mock.Anything, mock.Anything)
}

func TestFlightService_UpstreamFailure(t *testing.T) {
	f := newFixture()

	f.flights.On("SearchOffers", mock.Anything, mock.Anything).
		Return(nil, &amadeus.APIError{Op: "search", StatusCode: 400, Body: "bad date"}).Once()

	_, err := f.svc.Flight.SearchFlights(context.Background(), &request.SearchFlightsRequest{
		Origin: "JFK", Destination: "LHR", DepartureDate: "2025-06-10",
	})
	assert.ErrorIs(t, err, ErrUpstreamRequest)
	assert.Contains(t, err.Error(), "bad date")
}
