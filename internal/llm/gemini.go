package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// geminiTemperature keeps extraction and generation output stable between calls.
const geminiTemperature = 0.1

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config}, nil
}

// GenerateContent implements Client.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, tier, "", prompt)
}

// GenerateJSON implements Client with the JSON response MIME type set.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, tier, "application/json", prompt)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *GeminiClient) generate(ctx context.Context, tier ModelTier, mimeType, prompt string) (string, error) {
	name := c.config.GetModel(tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	model := c.client.GenerativeModel(name)
	model.SetTemperature(geminiTemperature)
	model.ResponseMIMEType = mimeType

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGeminiError(ctx, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", malformed(ProviderGemini, "unusable response", err)
	}
	return text, nil
}

// classifyGeminiError maps API status errors to KindStatus and transport
// failures to KindUnreachable. Context errors pass through unchanged.
func classifyGeminiError(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ModelError{Kind: KindStatus, Provider: ProviderGemini, StatusCode: apiErr.Code, Message: "generate content failed", Cause: err}
	}
	return unreachable(ProviderGemini, err)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// responseText joins the text parts of the first candidate. Blocked prompts
// and candidates stopped by safety filters are errors.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("empty response")
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("prompt blocked: %s", fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("response blocked by safety filters")
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("no content in response")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return sb.String(), nil
}
