// Package llm provides centralized LLM configuration and client abstractions.
// The backend is chosen from an explicit Config at construction time.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: extraction, document summarization
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: cover letter and resume generation
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderLocal is a locally hosted completion endpoint (LM Studio style /v1/completions)
	ProviderLocal Provider = "local"
	// ProviderOpenAI is the hosted OpenAI chat-completion API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultOpenAIBaseURL is the base URL of the hosted chat-completion API.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// DefaultLocalBaseURL is where LM Studio listens by default.
const DefaultLocalBaseURL = "http://localhost:1234"

// DefaultMaxTokens caps generation length on the local completion endpoint.
const DefaultMaxTokens = 50000

// DefaultTimeout bounds a single model request.
const DefaultTimeout = 5 * time.Minute

// Config holds the model configuration for the application
type Config struct {
	Provider  Provider
	Models    map[ModelTier]string
	BaseURL   string
	APIKey    string
	MaxTokens int
	Timeout   time.Duration
}

// DefaultConfig returns the default configuration (local completion endpoint)
func DefaultConfig() *Config {
	return DefaultLocalConfig()
}

// DefaultLocalConfig returns the default configuration for a local inference server.
// Local servers serve whatever model is loaded, so no tier mapping is required.
func DefaultLocalConfig() *Config {
	return &Config{
		Provider:  ProviderLocal,
		Models:    map[ModelTier]string{},
		BaseURL:   DefaultLocalBaseURL,
		MaxTokens: DefaultMaxTokens,
		Timeout:   DefaultTimeout,
	}
}

// DefaultOpenAIConfig returns the default hosted chat-completion configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o",
			TierAdvanced: "o1-mini",
		},
		BaseURL: DefaultOpenAIBaseURL,
		Timeout: DefaultTimeout,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Timeout: DefaultTimeout,
	}
}

// ConfigFor returns the default configuration for a provider, or nil if the provider is unknown.
func ConfigFor(provider Provider) *Config {
	switch provider {
	case ProviderLocal:
		return DefaultLocalConfig()
	case ProviderOpenAI:
		return DefaultOpenAIConfig()
	case ProviderGemini:
		return DefaultGeminiConfig()
	default:
		return nil
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
