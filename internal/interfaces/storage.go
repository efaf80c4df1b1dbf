package interfaces

import (
	"context"

	"github.com/bobmcallan/pulse/internal/models"
)

// StorageManager provides access to the local SurrealDB stores. Persistence is
// optional: a nil manager disables it and the service runs purely in memory.
type StorageManager interface {
	SnapshotStore() SnapshotStore
	TranscriptStore() TranscriptStore
	Close() error
}

// SnapshotStore caches the last good reads so a restarted service has data to
// serve before the first poll completes. Writes are fire-and-forget from the
// sync service; a write failure is logged, never surfaced.
type SnapshotStore interface {
	// SaveAccount persists the latest account snapshot
	SaveAccount(ctx context.Context, snapshot *models.AccountSnapshot) error

	// GetAccount retrieves the cached account snapshot, or nil
	GetAccount(ctx context.Context) (*models.AccountSnapshot, error)

	// SaveHistory persists the equity-history series for a range
	SaveHistory(ctx context.Context, r models.Range, points []models.EquityPoint) error

	// GetHistory retrieves the cached series for a range, or nil
	GetHistory(ctx context.Context, r models.Range) ([]models.EquityPoint, error)
}

// TranscriptStore persists the assistant conversation.
type TranscriptStore interface {
	// Append stores one chat message
	Append(ctx context.Context, msg *models.ChatMessage) error

	// List retrieves the transcript, oldest first
	List(ctx context.Context, limit int) ([]models.ChatMessage, error)
}
