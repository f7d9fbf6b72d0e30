package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/llm/llmtest"
)

func TestComplete_PassesTier(t *testing.T) {
	var gotTier llm.ModelTier
	client := &llmtest.MockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			gotTier = tier
			return "text for " + prompt, nil
		},
	}

	text, err := llm.Complete(context.Background(), client, "resume", llm.TierStandard)
	require.NoError(t, err)
	assert.Equal(t, "text for resume", text)
	assert.Equal(t, llm.TierStandard, gotTier)
}

func TestComplete_BlankOutputIsMalformed(t *testing.T) {
	client := &llmtest.MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return " \n\t", nil
		},
	}

	_, err := llm.Complete(context.Background(), client, "resume", llm.TierAdvanced)
	assert.True(t, llm.IsKind(err, llm.KindMalformed))
}
