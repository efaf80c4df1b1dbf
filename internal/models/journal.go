package models

import "time"

// JournalEntry is one row of the bot's trade_journal table: why the bot
// entered or exited a position.
type JournalEntry struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"`
	Ticker    string  `json:"ticker"`
	Action    string  `json:"action"`
	Shares    float64 `json:"shares"`
	Price     float64 `json:"price"`
	Reason    string  `json:"reason"`
}

// TradingNote is the shared strategy document ("shared brain"), a single row
// with a fixed id.
type TradingNote struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// BotLog is one row of the bot_logs table.
type BotLog struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one persisted message of the assistant transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatReply is the structured assistant response. ProposedNotes is non-nil
// only when the assistant proposes an update to the shared strategy notes.
type ChatReply struct {
	Thought       string  `json:"thought,omitempty"`
	Reply         string  `json:"reply"`
	ProposedNotes *string `json:"proposed_notes,omitempty"`
}
