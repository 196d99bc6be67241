package request

import "github.com/shopspring/decimal"

// Amount is in major units and accepts a JSON number or string.
type MakePaymentRequest struct {
	UserID    string           `json:"user_id" validate:"required"`
	BookingID string           `json:"booking_id" validate:"required"`
	Amount    *decimal.Decimal `json:"amount" validate:"required"`
}
