// Package llmtest provides a configurable llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/jobseeker-buddy/internal/llm"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GetModelFunc        func(tier llm.ModelTier) string
	CloseFunc           func() error

	mu      sync.Mutex
	prompts []string
}

// GenerateContent records the prompt and calls GenerateContentFunc
func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(prompt)
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

// GenerateJSON records the prompt and calls GenerateJSONFunc
func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(prompt)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string {
	if m.GetModelFunc != nil {
		return m.GetModelFunc(tier)
	}
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Prompts returns every prompt seen so far, in call order.
func (m *MockLLMClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *MockLLMClient) record(prompt string) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
}
