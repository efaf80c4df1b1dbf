// Package supabase provides a client for the bot's Supabase (PostgREST) backend
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// notesRowID is the fixed id of the single shared-notes row.
	notesRowID = 1
)

// Client implements the SupabaseClient interface over the PostgREST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Supabase client. baseURL is the project URL
// (https://<project>.supabase.co) and apiKey the anon key.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.inspectKey()

	return c
}

// inspectKey parses the anon key (Supabase keys are JWTs) without verifying
// the signature, purely to warn early about an expired or malformed key —
// otherwise the first symptom is every journal fetch failing with 401.
func (c *Client) inspectKey() {
	if c.apiKey == "" {
		return
	}

	token, _, err := jwt.NewParser().ParseUnverified(c.apiKey, jwt.MapClaims{})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Supabase key does not parse as a JWT")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if time.Now().After(exp.Time) {
			c.logger.Warn().Str("expired", exp.Time.Format(time.RFC3339)).Msg("Supabase key is expired")
		}
	}
	if ref, ok := claims["ref"].(string); ok {
		c.logger.Debug().Str("project", ref).Msg("Supabase client initialized")
	}
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Supabase API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// do performs a rate-limited request against /rest/v1.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + "/rest/v1" + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("url", path).Msg("Supabase API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
			Endpoint:   path,
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// RecentJournal retrieves the most recent journal entries, newest first
func (c *Client) RecentJournal(ctx context.Context, limit int) ([]models.JournalEntry, error) {
	path := fmt.Sprintf("/trade_journal?select=*&order=timestamp.desc&limit=%d", limit)

	var entries []models.JournalEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReasoningFor retrieves the latest journal entry for a ticker, or nil when
// the bot has never traded it.
func (c *Client) ReasoningFor(ctx context.Context, ticker string) (*models.JournalEntry, error) {
	path := fmt.Sprintf("/trade_journal?select=*&ticker=eq.%s&order=timestamp.desc&limit=1",
		url.QueryEscape(ticker))

	var entries []models.JournalEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// Notes retrieves the shared strategy notes document
func (c *Client) Notes(ctx context.Context) (string, error) {
	path := fmt.Sprintf("/trading_notes?select=*&id=eq.%d&limit=1", notesRowID)

	var notes []models.TradingNote
	if err := c.do(ctx, http.MethodGet, path, nil, &notes); err != nil {
		return "", err
	}
	if len(notes) == 0 {
		return "", fmt.Errorf("trading_notes row %d not found", notesRowID)
	}
	return notes[0].Content, nil
}

// SaveNotes replaces the shared strategy notes document
func (c *Client) SaveNotes(ctx context.Context, content string) error {
	path := fmt.Sprintf("/trading_notes?id=eq.%d", notesRowID)

	body := map[string]string{
		"content":    content,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// BotLogs retrieves the most recent bot log lines, newest first
func (c *Client) BotLogs(ctx context.Context, limit int) ([]models.BotLog, error) {
	path := fmt.Sprintf("/bot_logs?select=*&order=timestamp.desc&limit=%d", limit)

	var logs []models.BotLog
	if err := c.do(ctx, http.MethodGet, path, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Ensure Client implements SupabaseClient
var _ interfaces.SupabaseClient = (*Client)(nil)
