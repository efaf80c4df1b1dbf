// Package interfaces defines service contracts for Pulse
package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/pulse/internal/models"
)

// ErrBadBody marks a success-status response whose body did not decode as
// the expected shape, as opposed to a transport or HTTP-status failure.
var ErrBadBody = errors.New("unexpected response body")

// AlpacaClient provides authenticated reads of brokerage account data.
// Every call is a full-replace snapshot: HTTP 200 plus a decodable body
// succeeds, anything else is an error with no retry and no partial data.
type AlpacaClient interface {
	// GetAccount retrieves the account summary
	GetAccount(ctx context.Context, creds models.Credentials) (*models.AccountSnapshot, error)

	// GetFills retrieves recent fill activity
	GetFills(ctx context.Context, creds models.Credentials) ([]models.Trade, error)

	// GetPositions retrieves open positions
	GetPositions(ctx context.Context, creds models.Credentials) ([]models.Position, error)

	// GetPortfolioHistory retrieves the equity-history series for a range,
	// already zipped and filtered of sentinel readings
	GetPortfolioHistory(ctx context.Context, creds models.Credentials, r models.Range) ([]models.EquityPoint, error)
}

// SupabaseClient provides access to the bot's journal backend (PostgREST).
type SupabaseClient interface {
	// RecentJournal retrieves the most recent journal entries, newest first
	RecentJournal(ctx context.Context, limit int) ([]models.JournalEntry, error)

	// ReasoningFor retrieves the latest journal entry for a ticker, or nil
	ReasoningFor(ctx context.Context, ticker string) (*models.JournalEntry, error)

	// Notes retrieves the shared strategy notes document
	Notes(ctx context.Context) (string, error)

	// SaveNotes replaces the shared strategy notes document
	SaveNotes(ctx context.Context, content string) error

	// BotLogs retrieves the most recent bot log lines, newest first
	BotLogs(ctx context.Context, limit int) ([]models.BotLog, error)
}

// GeminiClient provides access to the Gemini API
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// Chat sends a user message with trade context and current notes, and
	// returns the structured assistant reply
	Chat(ctx context.Context, message, tradeContext, currentNotes string) (*models.ChatReply, error)
}
