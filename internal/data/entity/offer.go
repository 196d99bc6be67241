package entity

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrNoOfferPrice = errors.New("flight offer has no total price")

type offerPrice struct {
	Price struct {
		Currency   string `json:"currency"`
		Total      string `json:"total"`
		GrandTotal string `json:"grandTotal"`
	} `json:"price"`
}

// TicketPrice reads the total fare from a frozen flight offer snapshot.
// price.total is preferred, price.grandTotal is the fallback.
func TicketPrice(offer json.RawMessage) (decimal.Decimal, error) {
	var p offerPrice
	if err := json.Unmarshal(offer, &p); err != nil {
		return decimal.Zero, fmt.Errorf("decode flight offer: %w", err)
	}

	raw := p.Price.Total
	if raw == "" {
		raw = p.Price.GrandTotal
	}
	if raw == "" {
		return decimal.Zero, ErrNoOfferPrice
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse offer price %q: %w", raw, err)
	}
	return price, nil
}

// OfferCurrency returns the fare currency of a flight offer snapshot, if present.
func OfferCurrency(offer json.RawMessage) string {
	var p offerPrice
	if err := json.Unmarshal(offer, &p); err != nil {
		return ""
	}
	return p.Price.Currency
}
