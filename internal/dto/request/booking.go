package request

// Dates accept "2006-01-02" and ISO-8601 date-times; the time part is dropped.
type BookTripRequest struct {
	UserID        string `json:"user_id" validate:"required"`
	FlightOfferID string `json:"flight_offer_id" validate:"required"`
	Origin        string `json:"origin" validate:"required,max=8"`
	Destination   string `json:"destination" validate:"required,max=8"`
	DepartureDate string `json:"departure_date" validate:"required"`
	ReturnDate    string `json:"return_date,omitempty"`
}

// UpdateBookingRequest is a partial update: nil fields keep their value.
type UpdateBookingRequest struct {
	Origin      *string `json:"origin,omitempty" validate:"omitempty,min=1,max=8"`
	Destination *string `json:"destination,omitempty" validate:"omitempty,min=1,max=8"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

type SearchBookingsRequest struct {
	Destination string
	StartDate   string
	EndDate     string
}
