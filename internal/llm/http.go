package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxResponseBytes bounds how much of a backend response is read.
const maxResponseBytes = 10 << 20

func newHTTPClient(config *Config) *http.Client {
	return &http.Client{Timeout: config.Timeout}
}

// postJSON sends body as JSON and decodes a 200 response into out.
// Transport failures become unreachable errors, non-200 answers become status
// errors, and undecodable bodies become malformed errors.
func postJSON(ctx context.Context, httpClient *http.Client, provider Provider, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return unreachable(provider, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return unreachable(provider, fmt.Errorf("read llm response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(provider, resp, respBytes)
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return malformed(provider, "parse llm response", err)
	}
	return nil
}
