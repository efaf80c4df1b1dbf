// Package alpaca provides a client for the Alpaca trading API
package alpaca

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

const (
	DefaultBaseURL = "https://paper-api.alpaca.markets"
	DefaultTimeout = 30 * time.Second

	headerKeyID     = "APCA-API-KEY-ID"
	headerSecretKey = "APCA-API-SECRET-KEY"
)

// ErrNoCredentials is returned when a request is attempted without credentials.
var ErrNoCredentials = errors.New("no credentials set")

// Client implements the AlpacaClient interface. Credentials are passed per
// call rather than held by the client: the sync service owns credential state.
//
// There is deliberately no rate limiter and no retry here. Failures surface
// once and recovery happens on the next poll tick or user-triggered refresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpaca client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpaca API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs an authenticated GET request. Success is strictly HTTP 200
// plus a decodable body of the expected shape.
func (c *Client) get(ctx context.Context, creds models.Credentials, path string, result interface{}) error {
	if creds.IsZero() {
		return ErrNoCredentials
	}

	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(headerKeyID, creds.Key)
	req.Header.Set(headerSecretKey, creds.Secret)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", path).Msg("Alpaca API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrBadBody, err)
	}

	return nil
}

// GetAccount retrieves the account summary
func (c *Client) GetAccount(ctx context.Context, creds models.Credentials) (*models.AccountSnapshot, error) {
	var snapshot models.AccountSnapshot
	if err := c.get(ctx, creds, "/v2/account", &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetFills retrieves recent fill activity
func (c *Client) GetFills(ctx context.Context, creds models.Credentials) ([]models.Trade, error) {
	var trades []models.Trade
	if err := c.get(ctx, creds, "/v2/account/activities?activity_types=FILL", &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// GetPositions retrieves open positions
func (c *Client) GetPositions(ctx context.Context, creds models.Credentials) ([]models.Position, error) {
	var positions []models.Position
	if err := c.get(ctx, creds, "/v2/positions", &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// GetPortfolioHistory retrieves the equity-history series for a range. The
// raw response carries parallel timestamp/equity arrays; the returned points
// are zipped, chronological, and stripped of sentinel readings.
func (c *Client) GetPortfolioHistory(ctx context.Context, creds models.Credentials, r models.Range) ([]models.EquityPoint, error) {
	period, timeframe := r.Query()
	path := fmt.Sprintf("/v2/account/portfolio/history?period=%s&timeframe=%s",
		url.QueryEscape(period), url.QueryEscape(timeframe))

	var history models.PortfolioHistory
	if err := c.get(ctx, creds, path, &history); err != nil {
		return nil, err
	}
	return history.Points(), nil
}

// Ensure Client implements AlpacaClient
var _ interfaces.AlpacaClient = (*Client)(nil)
