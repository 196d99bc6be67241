package usecase

import (
	"errors"
	"fmt"

	"travel-booking/internal/gateway/amadeus"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOffer       = errors.New("flight offer not available")
	ErrInsufficientAmount = errors.New("insufficient payment amount")
	ErrUpstreamAuth       = errors.New("upstream authentication failed")
	ErrUpstreamRequest    = errors.New("upstream request failed")
	ErrMissingParameter   = errors.New("missing required parameter")
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
)

// upstreamError classifies a gateway failure, keeping the provider error in
// the chain.
func upstreamError(err error) error {
	if errors.Is(err, amadeus.ErrAuth) {
		return fmt.Errorf("%w: %w", ErrUpstreamAuth, err)
	}
	return fmt.Errorf("%w: %w", ErrUpstreamRequest, err)
}
