package llm

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("Dear "), genai.Text("team,")}},
	}}}
	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Dear team,", text)
}

func TestResponseText_Unusable(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"nil", nil, "empty response"},
		{"no candidates", &genai.GenerateContentResponse{}, "no candidates"},
		{"blocked prompt", &genai.GenerateContentResponse{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}}, "prompt blocked"},
		{"safety stop", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}, "safety filters"},
		{"no content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, "no content"},
		{"no text", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}}}, "no text parts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := responseText(tt.resp)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestClassifyGeminiError(t *testing.T) {
	ctx := context.Background()

	err := classifyGeminiError(ctx, &googleapi.Error{Code: 429})
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, KindStatus, me.Kind)
	assert.Equal(t, 429, me.StatusCode)

	err = classifyGeminiError(ctx, &net.OpError{Op: "dial", Err: errors.New("refused")})
	assert.True(t, IsKind(err, KindUnreachable))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = classifyGeminiError(cancelled, context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsKind(err, KindUnreachable))
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultGeminiConfig())
	assert.ErrorContains(t, err, "API key is required")
}
