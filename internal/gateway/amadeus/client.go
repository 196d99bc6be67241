package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"travel-booking/pkg/metrics"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	tokenPath  = "/v1/security/oauth2/token"
	offersPath = "/v2/shopping/flight-offers"
	provider   = "amadeus"
)

var (
	ErrAuth   = errors.New("flight provider authentication failed")
	ErrSearch = errors.New("flight provider search failed")
)

// APIError carries the provider's status and response body.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
	kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("amadeus %s error (%d): %s", e.Op, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

type SearchParams struct {
	Origin        string
	Destination   string
	DepartureDate string
	Adults        int
}

type offersResponse struct {
	Data []Offer `json:"data"`
}

// Client talks to the Amadeus self-service API. It keeps no token between
// calls: every search authenticates first.
type Client struct {
	baseURL    string
	creds      clientcredentials.Config
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(config utils.AmadeusConfig, timeout time.Duration, log *zap.Logger) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	return &Client{
		baseURL: baseURL,
		creds: clientcredentials.Config{
			ClientID:     config.APIKey,
			ClientSecret: config.APISecret,
			TokenURL:     baseURL + tokenPath,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With(zap.String("gateway", provider)),
	}
}

// Authenticate exchanges the API key and secret for a bearer token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.creds.Token(ctx)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(provider, "auth").Inc()

		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			c.log.Warn("Token request rejected",
				zap.Int("status", retrieveErr.Response.StatusCode),
				zap.ByteString("body", retrieveErr.Body),
			)
			return "", &APIError{
				Op:         "auth",
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
				kind:       ErrAuth,
			}
		}

		c.log.Error("Token request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	return token.AccessToken, nil
}

// SearchOffers queries flight offers for a one-way trip. A departure date
// with a time component is cut to its date.
func (c *Client) SearchOffers(ctx context.Context, params SearchParams) ([]Offer, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	adults := params.Adults
	if adults <= 0 {
		adults = 1
	}

	query := url.Values{}
	query.Set("originLocationCode", params.Origin)
	query.Set("destinationLocationCode", params.Destination)
	query.Set("departureDate", utils.NormalizeDate(params.DepartureDate))
	query.Set("adults", strconv.Itoa(adults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+offersPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSearch, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(provider, "search").Inc()
		c.log.Error("Flight search request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSearch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrSearch, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamErrors.WithLabelValues(provider, "search").Inc()
		c.log.Warn("Flight search rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("origin", params.Origin),
			zap.String("destination", params.Destination),
		)
		return nil, &APIError{Op: "search", StatusCode: resp.StatusCode, Body: string(body), kind: ErrSearch}
	}

	var result offersResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearch, err)
	}

	c.log.Debug("Flight search completed",
		zap.String("origin", params.Origin),
		zap.String("destination", params.Destination),
		zap.Int("offers", len(result.Data)),
	)

	return result.Data, nil
}
