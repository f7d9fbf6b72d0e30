package llm

import (
	"context"
	"net/http"
	"strings"
)

// LocalClient calls a locally hosted completion endpoint (LM Studio, llama.cpp server).
// The server answers with whatever model is loaded, so tiers are ignored.
type LocalClient struct {
	baseURL    string
	maxTokens  int
	config     *Config
	httpClient *http.Client
}

// NewLocalClient creates a client for {BaseURL}/v1/completions.
// A nil httpClient gets one with the configured timeout.
func NewLocalClient(config *Config, httpClient *http.Client) *LocalClient {
	if httpClient == nil {
		httpClient = newHTTPClient(config)
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultLocalBaseURL
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &LocalClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxTokens:  maxTokens,
		config:     config,
		httpClient: httpClient,
	}
}

type completionRequest struct {
	Prompt    string `json:"prompt"`
	Stream    bool   `json:"stream"`
	MaxTokens int    `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// GenerateContent returns the first choice's text, or "" when the server sent no choices.
func (c *LocalClient) GenerateContent(ctx context.Context, prompt string, _ ModelTier) (string, error) {
	var resp completionResponse
	err := postJSON(ctx, c.httpClient, ProviderLocal, c.baseURL+"/v1/completions", nil,
		completionRequest{Prompt: prompt, Stream: false, MaxTokens: c.maxTokens}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Text, nil
}

// GenerateJSON generates content and strips any markdown code fence around it
func (c *LocalClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.GenerateContent(ctx, prompt, tier)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the configured name for a tier, usually empty for local servers
func (c *LocalClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op
func (c *LocalClient) Close() error {
	return nil
}
