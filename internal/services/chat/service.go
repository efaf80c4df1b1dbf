// Package chat implements the trading-assistant conversation service
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

// journalContextLimit is how many recent journal entries feed the prompt.
const journalContextLimit = 30

// Service implements the ChatService interface. Each message is grounded in
// the bot's recent journal and the shared strategy notes; the conversation is
// persisted when a transcript store is configured.
type Service struct {
	gemini      interfaces.GeminiClient
	supabase    interfaces.SupabaseClient
	transcripts interfaces.TranscriptStore // nil disables persistence
	logger      *common.Logger
}

// NewService creates a new chat service. transcripts may be nil.
func NewService(gemini interfaces.GeminiClient, supabase interfaces.SupabaseClient, transcripts interfaces.TranscriptStore, logger *common.Logger) *Service {
	return &Service{
		gemini:      gemini,
		supabase:    supabase,
		transcripts: transcripts,
		logger:      logger,
	}
}

// Send sends a user message and returns the structured reply. Journal or
// notes fetch failures degrade the context rather than failing the chat.
func (s *Service) Send(ctx context.Context, message string) (*models.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("empty message")
	}

	tradeContext := s.buildTradeContext(ctx)

	notes := ""
	if s.supabase != nil {
		n, err := s.supabase.Notes(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Chat: shared notes unavailable")
		} else {
			notes = n
		}
	}

	reply, err := s.gemini.Chat(ctx, message, tradeContext, notes)
	if err != nil {
		return nil, fmt.Errorf("chat generation failed: %w", err)
	}

	s.persist(ctx, models.ChatRoleUser, message)
	s.persist(ctx, models.ChatRoleAssistant, reply.Reply)

	return reply, nil
}

// Transcript returns the persisted conversation, oldest first.
func (s *Service) Transcript(ctx context.Context) ([]models.ChatMessage, error) {
	if s.transcripts == nil {
		return nil, nil
	}
	return s.transcripts.List(ctx, 0)
}

// buildTradeContext formats the recent journal into the prompt context block.
func (s *Service) buildTradeContext(ctx context.Context) string {
	if s.supabase == nil {
		return "No journal data available."
	}

	entries, err := s.supabase.RecentJournal(ctx, journalContextLimit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Chat: journal unavailable")
		return "No journal data available."
	}
	if len(entries) == 0 {
		return "No journal data available."
	}

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s %s %s %.4g @ %.2f — %s\n",
			e.Timestamp, e.Action, e.Ticker, e.Shares, e.Price, e.Reason)
	}
	return sb.String()
}

// persist appends one message to the transcript; failures are logged only.
func (s *Service) persist(ctx context.Context, role models.ChatRole, content string) {
	if s.transcripts == nil {
		return
	}
	msg := &models.ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.transcripts.Append(ctx, msg); err != nil {
		s.logger.Warn().Err(err).Msg("Chat: transcript write failed")
	}
}

// Ensure Service implements ChatService
var _ interfaces.ChatService = (*Service)(nil)
