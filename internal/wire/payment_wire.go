package wire

import (
	"net/http"

	"travel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	idempotent func(http.Handler) http.Handler,
) {
	// POST /make-payment - Reconcile amount with the booked fare and open a payment intent
	r.With(idempotent).Post("/make-payment", paymentHandler.MakePayment)
}
