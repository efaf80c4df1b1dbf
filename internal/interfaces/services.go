package interfaces

import (
	"context"

	"github.com/bobmcallan/pulse/internal/models"
)

// SyncService owns the brokerage data collections and their refresh schedule.
// It is the single writer for trades, account, positions, and history; readers
// get copies and never mutate shared state.
type SyncService interface {
	// SetCredentials sets (or rotates) the API credentials, triggers an
	// initial fetch of all four data classes, and (re)starts polling
	SetCredentials(creds models.Credentials)

	// StartPolling starts the recurring refresh; restarts if already running
	StartPolling()

	// StopPolling cancels the recurring refresh; idempotent
	StopPolling()

	// RefreshAll fetches trades, account, positions, and history
	// concurrently and returns once all four have settled
	RefreshAll(ctx context.Context)

	// SelectRange changes the history window and refetches the series
	SelectRange(ctx context.Context, r models.Range)

	// Trades returns the current trade list and the trades status message
	Trades() ([]models.Trade, string)

	// Account returns the current account snapshot, or nil before first fetch
	Account() *models.AccountSnapshot

	// Positions returns the current open positions
	Positions() []models.Position

	// History returns the current equity-history points and selected range
	History() ([]models.EquityPoint, models.Range)

	// PercentChange returns the percentage change over the current history window
	PercentChange() float64

	// Loading reports the per-class in-flight flags
	Loading() models.LoadingState

	// RenderChart renders the current equity history as a PNG
	RenderChart() ([]byte, error)
}

// ChatService runs the trading-assistant conversation: it assembles journal
// context and shared notes, calls the model, and persists the transcript.
type ChatService interface {
	// Send sends a user message and returns the structured reply
	Send(ctx context.Context, message string) (*models.ChatReply, error)

	// Transcript returns the persisted conversation, oldest first
	Transcript(ctx context.Context) ([]models.ChatMessage, error)
}
