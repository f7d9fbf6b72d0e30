package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// SSEWriter writes numbered Server-Sent Events with JSON payloads. It is safe
// for concurrent use; the progress callbacks of both generation calls share one.
type SSEWriter struct {
	mu   sync.Mutex
	w    http.ResponseWriter
	rc   *http.ResponseController
	next int
}

// NewSSEWriter commits a 200 event-stream response on w. Errors from the
// handler after this point can only be reported as "error" events.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		return nil, fmt.Errorf("streaming not supported: %w", err)
	}
	return &SSEWriter{w: w, rc: rc}, nil
}

// WriteEvent sends one named event.
func (s *SSEWriter) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\nid: %d\n\n", event, payload, s.next); err != nil {
		return err
	}
	s.next++
	return s.rc.Flush()
}

// WriteError sends an "error" event carrying the status a plain request would have returned.
func (s *SSEWriter) WriteError(status int, message string) error {
	return s.WriteEvent("error", ErrorResponse{Error: message, Status: status})
}
