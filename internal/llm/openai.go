package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// OpenAIClient calls the hosted /chat/completions endpoint.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	config     *Config
	httpClient *http.Client
}

// NewOpenAIClient creates a chat-completion client.
// A nil httpClient gets one with the configured timeout.
func NewOpenAIClient(config *Config, httpClient *http.Client) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if httpClient == nil {
		httpClient = newHTTPClient(config)
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return &OpenAIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     config.APIKey,
		config:     config,
		httpClient: httpClient,
	}, nil
}

// chatRequest mirrors the /chat/completions request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse mirrors the relevant fields of the response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateContent sends the prompt as a single user message
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.chat(ctx, prompt, tier, nil)
}

// GenerateJSON requests a JSON object response and strips any code fence
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.chat(ctx, prompt, tier, &responseFormat{Type: "json_object"})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OpenAIClient) chat(ctx context.Context, prompt string, tier ModelTier, format *responseFormat) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	// Reasoning models reject response_format
	if strings.HasPrefix(modelName, "o1") {
		format = nil
	}

	reqBody := chatRequest{
		Model:          modelName,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: format,
	}

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := postJSON(ctx, c.httpClient, ProviderOpenAI, c.baseURL+"/chat/completions", headers, reqBody, &resp); err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", malformed(ProviderOpenAI, fmt.Sprintf("llm error (%s): %s", resp.Error.Type, resp.Error.Message), nil)
	}
	if len(resp.Choices) == 0 {
		return "", malformed(ProviderOpenAI, "llm returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op
func (c *OpenAIClient) Close() error {
	return nil
}
