package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"
)

func TestUnavailable(t *testing.T) {
	var u Unavailable
	_, err := u.Generate(context.Background(), "p", contract.GenerateOptions{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, u.Available())
	assert.Equal(t, "none", u.Name())
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name      string
		provider  schema.Provider
		available bool
		provName  string
	}{
		{"none", schema.NoProvider, false, "none"},
		{"anthropic", schema.AnthropicProvider, true, "anthropic"},
		{"openai", schema.OpenAIProvider, true, "openai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{
				AIProvider:      tt.provider,
				AIAPIKey:        "key",
				AIModel:         "model",
				AIBaseURL:       "http://localhost:1",
				AIMaxConcurrent: 2,
			}
			gen := NewGenerator(cfg)
			assert.Equal(t, tt.available, gen.Available())
			assert.Equal(t, tt.provName, gen.Name())
		})
	}
}
