package llm

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/codecritic/internal/contract"
)

// MockGenerator is a mock implementation of Generator for testing.
type MockGenerator struct {
	mock.Mock
	Disabled bool
}

var _ contract.Generator = &MockGenerator{} // Compile-time check

// Generate implements the Generator interface.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, opts contract.GenerateOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

// Available implements the Generator interface.
func (m *MockGenerator) Available() bool { return !m.Disabled }

// Name implements the Generator interface.
func (m *MockGenerator) Name() string { return "mock" }
