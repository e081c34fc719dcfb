// Package llm talks to external language models. It provides an Anthropic
// generator, an OpenAI-compatible generator and an Unavailable variant,
// a guard that bounds concurrency and trips a circuit breaker, and the
// prompt builders and reply parsers used by the review pipeline.
package llm

import (
	"context"
	"errors"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"
)

// ErrUnavailable is returned when no model is configured.
var ErrUnavailable = errors.New("AI model not configured")

// Unavailable is the Generator used when no provider is configured.
type Unavailable struct{}

var _ contract.Generator = Unavailable{} // Compile-time check

// Generate always fails with ErrUnavailable.
func (Unavailable) Generate(context.Context, string, contract.GenerateOptions) (string, error) {
	return "", ErrUnavailable
}

// Available reports false.
func (Unavailable) Available() bool { return false }

// Name returns "none".
func (Unavailable) Name() string { return string(schema.NoProvider) }

// NewGenerator builds the Generator for the configured provider, wrapped in
// a Guard. Providers without a key were already downgraded to none during
// config validation.
func NewGenerator(cfg *contract.Config) contract.Generator {
	switch cfg.AIProvider {
	case schema.AnthropicProvider:
		return NewGuard(NewAnthropicGenerator(cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL), cfg.AIMaxConcurrent)
	case schema.OpenAIProvider:
		return NewGuard(NewOpenAIGenerator(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel, nil), cfg.AIMaxConcurrent)
	default:
		return Unavailable{}
	}
}
