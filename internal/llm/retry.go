package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// RetryClient is a decorator that retries transient model failures with
// exponential backoff and jitter before giving up.
type RetryClient struct {
	inner      Client
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryClient wraps a Client with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryClient(inner Client, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryClient{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// GenerateContent delegates to the wrapped client, retrying transient errors
func (c *RetryClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.do(ctx, func() (string, error) {
		return c.inner.GenerateContent(ctx, prompt, tier)
	})
}

// GenerateJSON delegates to the wrapped client, retrying transient errors
func (c *RetryClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.do(ctx, func() (string, error) {
		return c.inner.GenerateJSON(ctx, prompt, tier)
	})
}

// GetModel returns the wrapped client's model for a tier
func (c *RetryClient) GetModel(tier ModelTier) string {
	return c.inner.GetModel(tier)
}

// Close closes the wrapped client
func (c *RetryClient) Close() error {
	return c.inner.Close()
}

func (c *RetryClient) do(ctx context.Context, call func() (string, error)) (string, error) {
	out, err := call()
	if err == nil || !isRetryable(err) {
		return out, err
	}

	lastErr := err
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		delay := c.backoffDelay(attempt, lastErr)

		c.logger.Warn("retrying model call after transient error",
			"attempt", attempt,
			"max_retries", c.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		out, err = call()
		if err == nil {
			return out, nil
		}
		if !isRetryable(err) {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After value sent with a 429 takes precedence.
func (c *RetryClient) backoffDelay(attempt int, err error) time.Duration {
	var modelErr *ModelError
	if errors.As(err, &modelErr) && modelErr.RetryAfter > 0 {
		return modelErr.RetryAfter
	}

	delay := c.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether err is a transient model failure.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var modelErr *ModelError
	if errors.As(err, &modelErr) {
		return modelErr.Temporary()
	}
	return false
}
