package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)
	assert.Equal(t, DefaultUserAgent, userAgent)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/job", ""} {
		_, err := URL(context.Background(), raw, nil)
		require.Error(t, err, raw)

		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "invalid URL", fetchErr.Message)
		assert.Zero(t, fetchErr.StatusCode)
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusTooManyRequests, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusTooManyRequests, fetchErr.StatusCode)
	assert.Equal(t, 7*time.Second, fetchErr.RetryAfter)
	assert.Contains(t, err.Error(), "429")
}

func TestFetcher_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("Accept-Language")))
	}))
	defer server.Close()

	f := New(&Options{Headers: map[string]string{"Accept-Language": "en-US"}}).WithClient(server.Client())
	result, err := f.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "en-US", result.HTML)
}

func TestFetcher_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(nil).Get(context.Background(), url)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "HTTP request failed", fetchErr.Message)
	assert.Zero(t, fetchErr.StatusCode)
}
