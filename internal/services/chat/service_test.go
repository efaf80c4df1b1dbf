package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/models"
)

type stubGemini struct {
	lastMessage string
	lastContext string
	lastNotes   string
	reply       *models.ChatReply
	err         error
}

func (g *stubGemini) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

func (g *stubGemini) Chat(ctx context.Context, message, tradeContext, currentNotes string) (*models.ChatReply, error) {
	g.lastMessage = message
	g.lastContext = tradeContext
	g.lastNotes = currentNotes
	if g.err != nil {
		return nil, g.err
	}
	return g.reply, nil
}

type stubSupabase struct {
	entries    []models.JournalEntry
	journalErr error
	notes      string
	notesErr   error
}

func (s *stubSupabase) RecentJournal(ctx context.Context, limit int) ([]models.JournalEntry, error) {
	return s.entries, s.journalErr
}

func (s *stubSupabase) ReasoningFor(ctx context.Context, ticker string) (*models.JournalEntry, error) {
	return nil, nil
}

func (s *stubSupabase) Notes(ctx context.Context) (string, error) {
	return s.notes, s.notesErr
}

func (s *stubSupabase) SaveNotes(ctx context.Context, content string) error { return nil }

func (s *stubSupabase) BotLogs(ctx context.Context, limit int) ([]models.BotLog, error) {
	return nil, nil
}

type memTranscripts struct {
	msgs []models.ChatMessage
}

func (m *memTranscripts) Append(ctx context.Context, msg *models.ChatMessage) error {
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memTranscripts) List(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	return m.msgs, nil
}

func TestSend_AssemblesContextAndPersists(t *testing.T) {
	gemini := &stubGemini{reply: &models.ChatReply{Reply: "Your bot favors momentum entries."}}
	supabase := &stubSupabase{
		entries: []models.JournalEntry{
			{Timestamp: "2024-03-15T14:30:00Z", Ticker: "AAPL", Action: "buy", Shares: 10, Price: 172.5, Reason: "momentum entry"},
		},
		notes: "Hold winners.",
	}
	transcripts := &memTranscripts{}

	svc := NewService(gemini, supabase, transcripts, common.NewSilentLogger())

	reply, err := svc.Send(context.Background(), "What is the strategy?")
	require.NoError(t, err)
	assert.Equal(t, "Your bot favors momentum entries.", reply.Reply)

	assert.Equal(t, "What is the strategy?", gemini.lastMessage)
	assert.Contains(t, gemini.lastContext, "buy AAPL 10 @ 172.50")
	assert.Contains(t, gemini.lastContext, "momentum entry")
	assert.Equal(t, "Hold winners.", gemini.lastNotes)

	require.Len(t, transcripts.msgs, 2)
	assert.Equal(t, models.ChatRoleUser, transcripts.msgs[0].Role)
	assert.Equal(t, models.ChatRoleAssistant, transcripts.msgs[1].Role)
	assert.NotEmpty(t, transcripts.msgs[0].ID)
}

func TestSend_JournalFailureDegradesContext(t *testing.T) {
	gemini := &stubGemini{reply: &models.ChatReply{Reply: "ok"}}
	supabase := &stubSupabase{journalErr: errors.New("supabase down"), notesErr: errors.New("supabase down")}

	svc := NewService(gemini, supabase, nil, common.NewSilentLogger())

	_, err := svc.Send(context.Background(), "hello")
	require.NoError(t, err, "journal failure must not fail the chat")
	assert.Equal(t, "No journal data available.", gemini.lastContext)
	assert.Empty(t, gemini.lastNotes)
}

func TestSend_GeminiFailure(t *testing.T) {
	gemini := &stubGemini{err: errors.New("quota exceeded")}
	svc := NewService(gemini, &stubSupabase{}, nil, common.NewSilentLogger())

	_, err := svc.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat generation failed")
}

func TestSend_EmptyMessage(t *testing.T) {
	svc := NewService(&stubGemini{}, &stubSupabase{}, nil, common.NewSilentLogger())

	_, err := svc.Send(context.Background(), "   ")
	require.Error(t, err)
}

func TestTranscript_NoStore(t *testing.T) {
	svc := NewService(&stubGemini{}, &stubSupabase{}, nil, common.NewSilentLogger())

	msgs, err := svc.Transcript(context.Background())
	require.NoError(t, err)
	assert.Nil(t, msgs)
}
