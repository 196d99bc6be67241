package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"travel-booking/pkg/metrics"
	"travel-booking/pkg/utils"

	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

const provider = "stripe"

var ErrPayment = errors.New("payment processor rejected the request")

var hundred = decimal.NewFromInt(100)

// Intent is the part of a payment intent the caller needs to finish the
// charge client-side.
type Intent struct {
	ID           string
	ClientSecret string
}

type Client struct {
	api *client.API
	log *zap.Logger
}

func NewClient(config utils.StripeConfig, timeout time.Duration, log *zap.Logger) *Client {
	log = log.With(zap.String("gateway", provider))
	httpClient := &http.Client{Timeout: timeout}

	backendConfig := func(url string) *stripego.BackendConfig {
		cfg := &stripego.BackendConfig{
			HTTPClient:        httpClient,
			LeveledLogger:     log.Sugar(),
			MaxNetworkRetries: stripego.Int64(0),
		}
		if url != "" {
			cfg.URL = stripego.String(url)
		}
		return cfg
	}

	api := &client.API{}
	api.Init(config.SecretKey, &stripego.Backends{
		API:     stripego.GetBackendWithConfig(stripego.APIBackend, backendConfig(config.BaseURL)),
		Connect: stripego.GetBackendWithConfig(stripego.ConnectBackend, backendConfig("")),
		Uploads: stripego.GetBackendWithConfig(stripego.UploadsBackend, backendConfig("")),
	})

	return &Client{api: api, log: log}
}

// MinorUnits converts a major-unit amount to cents, truncating sub-cent digits.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).IntPart()
}

// CreateIntent asks the processor for a payment intent of amount in currency.
func (c *Client) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (*Intent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(MinorUnits(amount)),
		Currency: stripego.String(currency),
	}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(provider, "create_intent").Inc()
		c.log.Warn("Payment intent rejected",
			zap.Error(err),
			zap.String("amount", amount.String()),
			zap.String("currency", currency),
		)
		return nil, wrapError(err)
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// CancelIntent cancels an intent whose local record could not be stored.
func (c *Client) CancelIntent(ctx context.Context, id string) error {
	params := &stripego.PaymentIntentCancelParams{
		CancellationReason: stripego.String("abandoned"),
	}
	params.Context = ctx

	if _, err := c.api.PaymentIntents.Cancel(id, params); err != nil {
		metrics.UpstreamErrors.WithLabelValues(provider, "cancel_intent").Inc()
		c.log.Error("Failed to cancel payment intent", zap.Error(err), zap.String("payment_intent_id", id))
		return wrapError(err)
	}

	c.log.Info("Payment intent cancelled", zap.String("payment_intent_id", id))
	return nil
}

func wrapError(err error) error {
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return fmt.Errorf("%w (%d): %s", ErrPayment, stripeErr.HTTPStatusCode, stripeErr.Msg)
	}
	return fmt.Errorf("%w: %v", ErrPayment, err)
}
