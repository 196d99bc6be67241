package repository

import (
	"errors"

	"travel-booking/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is wrapped when a write touches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is wrapped when an insert violates a unique constraint.
	ErrDuplicate = errors.New("record already exists")
)

const uniqueViolation = "23505"

type Repository struct {
	User    UserRepository
	Booking BookingRepository
	Payment PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Payment: NewPaymentRepository(db, log),
	}
}
