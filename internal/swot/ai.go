package swot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Generator is the external text-generation collaborator behind the AI
// analysis path.
type Generator interface {
	// Generate returns the raw model output for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Model identifies the model behind the generator.
	Model() string
}

const defaultMaxTokens = 2000

// ClaudeGenerator generates SWOT analyses through the Anthropic API.
type ClaudeGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    *slog.Logger
}

// NewClaudeGenerator creates a generator for the given API key and model.
// A nil logger falls back to slog.Default().
func NewClaudeGenerator(apiKey, model string, logger *slog.Logger) *ClaudeGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClaudeGenerator{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: defaultMaxTokens,
		logger:    logger,
	}
}

// Model returns the configured model identifier.
func (g *ClaudeGenerator) Model() string {
	return g.model
}

// Generate sends the prompt and concatenates the text blocks of the
// response.
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: generationSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("message generation failed: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("empty generation response")
	}
	return out.String(), nil
}
