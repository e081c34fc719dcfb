package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"
)

// AnthropicGenerator calls the Anthropic Messages API.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  string
}

var _ contract.Generator = &AnthropicGenerator{} // Compile-time check

// NewAnthropicGenerator creates a generator. baseURL may be empty.
func NewAnthropicGenerator(apiKey, model, baseURL string) *AnthropicGenerator {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicGenerator{client: &client, model: model}
}

// Generate sends a single user message and concatenates the text blocks of the reply.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string, opts contract.GenerateOptions) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(opts.MaxOutputTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic API returned no text content")
	}
	return sb.String(), nil
}

// Available reports true.
func (g *AnthropicGenerator) Available() bool { return true }

// Name returns "anthropic".
func (g *AnthropicGenerator) Name() string { return string(schema.AnthropicProvider) }
