package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const CurrencyUSD = "usd"

type Payment struct {
	BaseSimple
	UserID          uuid.UUID       `db:"user_id"`
	BookingID       uuid.UUID       `db:"booking_id"`
	Amount          decimal.Decimal `db:"amount"`
	Currency        string          `db:"currency"`
	PaymentIntentID string          `db:"payment_intent_id"`
}
