package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	Base
	UserID      uuid.UUID       `db:"user_id"`
	Origin      string          `db:"origin"`
	Destination string          `db:"destination"`
	StartDate   time.Time       `db:"start_date"`
	EndDate     *time.Time      `db:"end_date"`
	FlightOffer json.RawMessage `db:"flight_offer"` // provider offer frozen at booking time
}

// BookingFilter selects bookings for search. Zero values do not filter.
type BookingFilter struct {
	Destination string
	From        *time.Time // start_date >= From
	To          *time.Time // start_date <= To
}
