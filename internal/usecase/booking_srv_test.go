package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"travel-booking/internal/dto/request"
	"travel-booking/internal/event"
	"travel-booking/internal/gateway/amadeus"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	offerOne = `{"type":"flight-offer","id":"1","itineraries":[{"segments":[{"carrierCode":"BA","number":"112"}]}],"price":{"currency":"USD","total":"355.34"}}`
	offerTwo = `{"type":"flight-offer","id":"2","price":{"currency":"USD","total":"410.00"}}`
)

func registerUser(t *testing.T, f *fixture, email string) string {
	t.Helper()
	resp, err := f.svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Name: "Ada", Email: email, Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return resp.UserID
}

func bookTrip(t *testing.T, f *fixture, userID, destination, date string) string {
	t.Helper()
	f.flights.On("SearchOffers", mock.Anything, mock.MatchedBy(func(p amadeus.SearchParams) bool {
		return p.Destination == destination && p.DepartureDate == date
	})).Return(mustOffers(offerOne, offerTwo), nil).Once()

	resp, err := f.svc.Booking.BookTrip(context.Background(), &request.BookTripRequest{
		UserID:        userID,
		FlightOfferID: "1",
		Origin:        "JFK",
		Destination:   destination,
		DepartureDate: date,
	})
	require.NoError(t, err)
	return resp.BookingID
}

func TestBookingService_BookTripFreezesMatchedOffer(t *testing.T) {
	f := newFixture()
	userID := registerUser(t, f, "ada@example.com")

	f.flights.On("SearchOffers", mock.Anything, amadeus.SearchParams{
		Origin:        "JFK",
		Destination:   "LHR",
		DepartureDate: "2025-06-10T09:00:00",
		Adults:        1,
	}).Return(mustOffers(offerTwo, offerOne), nil).Once()

	resp, err := f.svc.Booking.BookTrip(context.Background(), &request.BookTripRequest{
		UserID:        userID,
		FlightOfferID: "1",
		Origin:        "JFK",
		Destination:   "LHR",
		DepartureDate: "2025-06-10T09:00:00",
		ReturnDate:    "2025-06-20",
	})
	require.NoError(t, err)

	booking, err := f.svc.Booking.GetBooking(context.Background(), resp.BookingID)
	require.NoError(t, err)

	assert.JSONEq(t, offerOne, string(booking.FlightOffer))
	assert.Equal(t, "2025-06-10", booking.StartDate)
	require.NotNil(t, booking.EndDate)
	assert.Equal(t, "2025-06-20", *booking.EndDate)
	assert.Equal(t, userID, booking.UserID)

	assert.Equal(t, []event.Type{event.BookingCreated}, f.events.types())
	f.flights.AssertExpectations(t)
}

func TestBookingService_BookTripUnknownOffer(t *testing.T) {
	f := newFixture()
	userID := registerUser(t, f, "ada@example.com")

	f.flights.On("SearchOffers", mock.Anything, mock.Anything).Return(mustOffers(offerOne, offerTwo), nil).Once()

	_, err := f.svc.Booking.BookTrip(context.Background(), &request.BookTripRequest{
		UserID:        userID,
		FlightOfferID: "99",
		Origin:        "JFK",
		Destination:   "LHR",
		DepartureDate: "2025-06-10",
	})
	assert.ErrorIs(t, err, ErrInvalidOffer)
	assert.Empty(t, f.store.bookings)
	assert.Empty(t, f.events.types())
}

func TestBookingService_BookTripUnknownUser(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Booking.BookTrip(context.Background(), &request.BookTripRequest{
		UserID:        uuid.NewString(),
		FlightOfferID: "1",
		Origin:        "JFK",
		Destination:   "LHR",
		DepartureDate: "2025-06-10",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	f.flights.AssertNotCalled(t, "SearchOffers", mock.Anything, mock.Anything)
}

func TestBookingService_BookTripUpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "auth", err: &amadeus.APIError{Op: "auth", StatusCode: 401}, wantErr: ErrUpstreamAuth},
		{name: "search", err: errors.New("connection refused"), wantErr: ErrUpstreamRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			userID := registerUser(t, f, "ada@example.com")

			searchErr := tt.err
			if apiErr, ok := tt.err.(*amadeus.APIError); ok {
				searchErr = fmt.Errorf("%w: %w", amadeus.ErrAuth, apiErr)
			}
			f.flights.On("SearchOffers", mock.Anything, mock.Anything).Return(nil, searchErr).Once()

			_, err := f.svc.Booking.BookTrip(context.Background(), &request.BookTripRequest{
				UserID: userID, FlightOfferID: "1", Origin: "JFK", Destination: "LHR", DepartureDate: "2025-06-10",
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.bookings)
		})
	}
}

func TestBookingService_BookTripRejectsReturnBeforeDeparture(t *testing.T) {
	f := newFixture()
	userID := registerUser(t, f, "ada@example.com")

	_, err := f.svc.Booking.BookTrip(context.Background(), &request.BookTripRequest{
		UserID: userID, FlightOfferID: "1", Origin: "JFK", Destination: "LHR",
		DepartureDate: "2025-06-10", ReturnDate: "2025-06-01",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBookingService_UpdateOnlySuppliedFields(t *testing.T) {
	f := newFixture()
	userID := registerUser(t, f, "ada@example.com")
	bookingID := bookTrip(t, f, userID, "LHR", "2025-06-10")

	before, err := f.svc.Booking.GetBooking(context.Background(), bookingID)
	require.NoError(t, err)

	var patch request.UpdateBookingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"destination":"CDG"}`), &patch))

	updated, err := f.svc.Booking.UpdateBooking(context.Background(), bookingID, &patch)
	require.NoError(t, err)

	assert.Equal(t, "CDG", updated.Destination)
	assert.Equal(t, before.Origin, updated.Origin)
	assert.Equal(t, before.StartDate, updated.StartDate)
	assert.Equal(t, before.EndDate, updated.EndDate)
	assert.JSONEq(t, string(before.FlightOffer), string(updated.FlightOffer))

	stored, err := f.svc.Booking.GetBooking(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, "CDG", stored.Destination)
	assert.Equal(t, "JFK", stored.Origin)
}

func TestBookingService_UpdateDates(t *testing.T) {
	f := newFixture()
	userID := registerUser(t, f, "ada@example.com")
	bookingID := bookTrip(t, f, userID, "LHR", "2025-06-10")

	start, end := "2025-07-01", "2025-07-15"
	updated, err := f.svc.Booking.UpdateBooking(context.Background(), bookingID, &request.UpdateBookingRequest{
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, start, updated.StartDate)
	require.NotNil(t, updated.EndDate)
	assert.Equal(t, end, *updated.EndDate)

	none := ""
	updated, err = f.svc.Booking.UpdateBooking(context.Background(), bookingID, &request.UpdateBookingRequest{EndDate: &none})
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)

	bad := "2025-06-01"
	_, err = f.svc.Booking.UpdateBooking(context.Background(), bookingID, &request.UpdateBookingRequest{EndDate: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBookingService_UpdateMissingBooking(t *testing.T) {
	f := newFixture()
	dest := "CDG"

	_, err := f.svc.Booking.UpdateBooking(context.Background(), uuid.NewString(), &request.UpdateBookingRequest{Destination: &dest})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingService_Cancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Booking.CancelBooking(ctx, uuid.NewString()), ErrNotFound)

	userID := registerUser(t, f, "ada@example.com")
	bookingID := bookTrip(t, f, userID, "LHR", "2025-06-10")

	require.NoError(t, f.svc.Booking.CancelBooking(ctx, bookingID))

	_, err := f.svc.Booking.GetBooking(ctx, bookingID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.Booking.CancelBooking(ctx, bookingID), ErrNotFound)

	assert.Equal(t, []event.Type{event.BookingCreated, event.BookingCancelled}, f.events.types())
}

func TestBookingService_SearchByDestination(t *testing.T) {
	f := newFixture()
	userID := registerUser(t, f, "ada@example.com")

	lhr1 := bookTrip(t, f, userID, "LHR", "2025-06-10")
	bookTrip(t, f, userID, "CDG", "2025-06-11")
	lhr2 := bookTrip(t, f, userID, "LHR", "2025-06-12")
	bookTrip(t, f, userID, "FCO", "2025-06-13")

	found, err := f.svc.Booking.SearchBookings(context.Background(), &request.SearchBookingsRequest{Destination: "LHR"})
	require.NoError(t, err)

	ids := make([]string, 0, len(found))
	for _, b := range found {
		assert.Equal(t, "LHR", b.Destination)
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []string{lhr1, lhr2}, ids)
}

func TestBookingService_SearchByDateRange(t *testing.T) {
	f := newFixture()
	userID := registerUser(t, f, "ada@example.com")

	bookTrip(t, f, userID, "LHR", "2025-06-10")
	mid := bookTrip(t, f, userID, "LHR", "2025-06-15")
	bookTrip(t, f, userID, "LHR", "2025-06-20")

	found, err := f.svc.Booking.SearchBookings(context.Background(), &request.SearchBookingsRequest{
		StartDate: "2025-06-11",
		EndDate:   "2025-06-19",
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, mid, found[0].ID)

	_, err = f.svc.Booking.SearchBookings(context.Background(), &request.SearchBookingsRequest{StartDate: "June"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBookingService_GetUserBookings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Booking.GetUserBookings(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	ada := registerUser(t, f, "ada@example.com")
	bob := registerUser(t, f, "bob@example.com")
	bookTrip(t, f, ada, "LHR", "2025-06-10")
	bookTrip(t, f, bob, "CDG", "2025-06-10")

	list, err := f.svc.Booking.GetUserBookings(ctx, ada)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "LHR", list[0].Destination)

	empty := registerUser(t, f, "eve@example.com")
	list, err = f.svc.Booking.GetUserBookings(ctx, empty)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBookingService_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("broker unavailable")
	userID := registerUser(t, f, "ada@example.com")

	bookingID := bookTrip(t, f, userID, "LHR", "2025-06-10")
	assert.NotEmpty(t, bookingID)
	assert.Len(t, f.store.bookings, 1)
}

func TestBookingService_Itinerary(t *testing.T) {
	f := newFixture()
	userID := registerUser(t, f, "ada@example.com")
	bookingID := bookTrip(t, f, userID, "LHR", "2025-06-10")

	data, filename, err := f.svc.Booking.Itinerary(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.Contains(t, filename, bookingID)

	_, _, err = f.svc.Booking.Itinerary(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingService_UnknownOpaqueIDs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	destination := "CDG"

	_, err := f.svc.Booking.GetBooking(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.svc.Booking.CancelBooking(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)

	_, err = f.svc.Booking.UpdateBooking(ctx, "nonexistent", &request.UpdateBookingRequest{Destination: &destination})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Booking.GetUserBookings(ctx, "missing-user")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.svc.Booking.Itinerary(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Booking.BookTrip(ctx, &request.BookTripRequest{
		UserID: "missing-user", FlightOfferID: "1", Origin: "JFK", Destination: "LHR", DepartureDate: "2025-06-10",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	f.flights.AssertNotCalled(t, "SearchOffers", mock.Anything, mock.Anything)
}
