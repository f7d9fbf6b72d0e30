package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorKind classifies a failed model call.
type ErrorKind string

const (
	// KindUnreachable means the backend could not be contacted (connection refused, DNS, timeout)
	KindUnreachable ErrorKind = "unreachable"
	// KindStatus means the backend answered with a non-success HTTP status
	KindStatus ErrorKind = "status"
	// KindMalformed means the backend answered but the body could not be used
	KindMalformed ErrorKind = "malformed"
)

// ModelError represents a failure talking to a generation backend.
type ModelError struct {
	Kind       ErrorKind
	Provider   Provider
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Message    string
	Cause      error
}

func (e *ModelError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	prefix := "model"
	if e.Provider != "" {
		prefix = string(e.Provider) + " model"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}

// Temporary reports whether retrying the same call may succeed.
func (e *ModelError) Temporary() bool {
	switch e.Kind {
	case KindUnreachable:
		return true
	case KindStatus:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

// IsKind reports whether err is a ModelError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var modelErr *ModelError
	return errors.As(err, &modelErr) && modelErr.Kind == kind
}

func unreachable(provider Provider, cause error) *ModelError {
	return &ModelError{Kind: KindUnreachable, Provider: provider, Message: "backend unreachable", Cause: cause}
}

func malformed(provider Provider, message string, cause error) *ModelError {
	return &ModelError{Kind: KindMalformed, Provider: provider, Message: message, Cause: cause}
}

func statusError(provider Provider, resp *http.Response, body []byte) *ModelError {
	err := &ModelError{
		Kind:       KindStatus,
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Message:    "unexpected status",
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
	if len(body) > 0 {
		err.Cause = errors.New(truncate(string(body), 512))
	}
	return err
}

// parseRetryAfter accepts the delay-seconds form of the header only.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
