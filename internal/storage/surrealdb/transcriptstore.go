package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

const defaultTranscriptLimit = 200

// TranscriptStore implements interfaces.TranscriptStore using SurrealDB.
type TranscriptStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewTranscriptStore creates a new TranscriptStore.
func NewTranscriptStore(db *surrealdb.DB, logger *common.Logger) *TranscriptStore {
	return &TranscriptStore{db: db, logger: logger}
}

func (s *TranscriptStore) Append(ctx context.Context, msg *models.ChatMessage) error {
	if msg == nil || msg.ID == "" {
		return fmt.Errorf("chat message requires an id")
	}

	sql := `UPSERT $rid SET message_id = $message_id, role = $role, content = $content, created_at = $created_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("chat_message", msg.ID),
		"message_id": msg.ID,
		"role":       string(msg.Role),
		"content":    msg.Content,
		"created_at": msg.CreatedAt.UTC(),
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

func (s *TranscriptStore) List(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultTranscriptLimit
	}

	sql := `SELECT message_id as id, role, content, created_at FROM chat_message ORDER BY created_at ASC LIMIT $limit`
	vars := map[string]any{
		"limit": limit,
	}

	results, err := surrealdb.Query[[]models.ChatMessage](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}

// Ensure TranscriptStore implements interfaces.TranscriptStore
var _ interfaces.TranscriptStore = (*TranscriptStore)(nil)
