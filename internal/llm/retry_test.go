package llm_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/llm/llmtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetryClient_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	mock := &llmtest.MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			calls++
			if calls == 1 {
				return "", &llm.ModelError{Kind: llm.KindStatus, StatusCode: 503}
			}
			return "ok", nil
		},
	}

	client := llm.NewRetryClient(mock, 2, time.Millisecond, discardLogger())
	text, err := client.GenerateContent(context.Background(), "p", llm.TierAdvanced)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 2, calls)
}

func TestRetryClient_DoesNotRetryMalformed(t *testing.T) {
	calls := 0
	mock := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			calls++
			return "", &llm.ModelError{Kind: llm.KindMalformed}
		},
	}

	client := llm.NewRetryClient(mock, 3, time.Millisecond, discardLogger())
	_, err := client.GenerateJSON(context.Background(), "p", llm.TierLite)
	assert.True(t, llm.IsKind(err, llm.KindMalformed))
	assert.Equal(t, 1, calls)
}

func TestRetryClient_DoesNotRetryClientStatus(t *testing.T) {
	calls := 0
	mock := &llmtest.MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			calls++
			return "", &llm.ModelError{Kind: llm.KindStatus, StatusCode: 400}
		},
	}

	client := llm.NewRetryClient(mock, 3, time.Millisecond, discardLogger())
	_, err := client.GenerateContent(context.Background(), "p", llm.TierLite)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryClient_ExhaustsRetries(t *testing.T) {
	calls := 0
	mock := &llmtest.MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			calls++
			return "", &llm.ModelError{Kind: llm.KindUnreachable, Cause: errors.New("connection refused")}
		},
	}

	client := llm.NewRetryClient(mock, 2, time.Millisecond, discardLogger())
	_, err := client.GenerateContent(context.Background(), "p", llm.TierLite)
	assert.True(t, llm.IsKind(err, llm.KindUnreachable))
	assert.Equal(t, 3, calls)
}

func TestRetryClient_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	mock := &llmtest.MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			calls++
			cancel()
			return "", &llm.ModelError{Kind: llm.KindUnreachable}
		},
	}

	client := llm.NewRetryClient(mock, 5, time.Hour, discardLogger())
	_, err := client.GenerateContent(ctx, "p", llm.TierLite)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
