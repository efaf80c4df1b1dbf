// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

const DefaultModel = "gemini-2.0-flash"

// Client implements the GeminiClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// Chat sends a user message with trade context and the current shared notes,
// and returns the structured assistant reply.
func (c *Client) Chat(ctx context.Context, message, tradeContext, currentNotes string) (*models.ChatReply, error) {
	prompt := buildChatPrompt(message, tradeContext, currentNotes)

	text, err := c.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return ParseReply(text), nil
}

// buildChatPrompt assembles the assistant prompt. The model is instructed to
// answer in strict JSON so note updates can be proposed alongside the reply.
func buildChatPrompt(message, tradeContext, currentNotes string) string {
	var sb strings.Builder

	sb.WriteString("You are a trading assistant with access to a \"Shared Brain\" strategy document.\n\n")
	sb.WriteString("Context (Last 30 Trades):\n")
	sb.WriteString(tradeContext)
	sb.WriteString("\n")

	if currentNotes != "" {
		sb.WriteString("\nCurrent Strategy Notes (Shared Brain):\n")
		sb.WriteString(currentNotes)
		sb.WriteString("\n")
	}

	sb.WriteString("\nUser Question:\n")
	sb.WriteString(message)
	sb.WriteString("\n\n")
	sb.WriteString(`Instructions:
1. Parse the user's intent. If they want to change the strategy, you MUST propose an update to the "Shared Brain".
2. Output STRICT JSON format only. No markdown fences.
3. Format:
{
  "thought": "Internal reasoning...",
  "reply": "Conversational response to user...",
  "proposed_notes": "The full updated text of the Shared Brain notes (only if changing)"
}
4. If no changes to notes are needed, set "proposed_notes" to null.
5. Keep "reply" concise (under 3 sentences).`)

	return sb.String()
}

// ParseReply decodes the model's JSON reply. Models wrap JSON in markdown
// fences despite instructions, so fences are stripped first; if the text
// still isn't valid JSON, the whole text becomes a plain reply.
func ParseReply(text string) *models.ChatReply {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var reply models.ChatReply
	if err := json.Unmarshal([]byte(clean), &reply); err == nil && reply.Reply != "" {
		return &reply
	}

	return &models.ChatReply{Reply: text}
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// Ensure Client implements GeminiClient
var _ interfaces.GeminiClient = (*Client)(nil)
