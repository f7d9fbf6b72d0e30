package llm

import (
	"context"
	"fmt"
	"strings"
)

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel returns the underlying provider model for a tier (for direct access if needed)
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderLocal:
		return NewLocalClient(config, nil), nil
	case ProviderOpenAI:
		return NewOpenAIClient(config, nil)
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
}

// Complete sends a prompt at the given tier and returns the generated text.
// Blank output is reported as a KindMalformed ModelError.
func Complete(ctx context.Context, client Client, prompt string, tier ModelTier) (string, error) {
	text, err := client.GenerateContent(ctx, prompt, tier)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &ModelError{Kind: KindMalformed, Message: "empty completion"}
	}
	return text, nil
}
