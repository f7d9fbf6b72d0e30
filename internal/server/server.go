// Package server provides the HTTP API for JobSeeker Buddy.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/jobseeker-buddy/internal/applications"
	"github.com/jonathan/jobseeker-buddy/internal/assets"
	"github.com/jonathan/jobseeker-buddy/internal/documents"
	"github.com/jonathan/jobseeker-buddy/internal/scraper"
	"github.com/jonathan/jobseeker-buddy/internal/server/ratelimit"
)

// Services are the operations the API exposes. Routes are only registered
// for the services that are set, so the extraction service can run alone.
type Services struct {
	Assets       *assets.Service
	Applications *applications.Service
	Documents    *documents.Service
	// Extractor backs GET /extract
	Extractor scraper.JobScraper
}

// Config holds server configuration
type Config struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	RateLimit       *ratelimit.Config
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    300 * time.Second, // generation can take minutes
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		MaxUploadBytes:  64 << 20,
	}
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	services    Services
	cfg         Config
	validator   *validator.Validate
	rateLimiter *ratelimit.Limiter
	logger      *slog.Logger
}

// New creates a server. Zero durations in cfg take the DefaultConfig values.
func New(cfg Config, services Services, logger *slog.Logger) *Server {
	cfg = withDefaults(cfg)
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		services:    services,
		cfg:         cfg,
		validator:   newValidator(),
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	if services.Assets != nil {
		mux.HandleFunc("POST /upload_assets", s.handleUploadAssets)
		mux.HandleFunc("GET /user_assets/{user_id}", s.handleGetUserAssets)
	}
	if services.Applications != nil {
		mux.HandleFunc("POST /new_application", s.handleNewApplication)
		mux.HandleFunc("GET /applications/{id}", s.handleGetApplication)
		mux.HandleFunc("GET /applications/{id}/versions", s.handleListVersions)
		mux.HandleFunc("GET /users/{user_id}/applications", s.handleListApplications)
	}
	if services.Documents != nil {
		mux.HandleFunc("POST /generate_documents", s.handleGenerateDocuments)
		mux.HandleFunc("POST /generate_documents/stream", s.handleGenerateDocumentsStream)
		mux.HandleFunc("POST /feedback", s.handleFeedback)
	}
	if services.Extractor != nil {
		mux.HandleFunc("GET /extract", s.handleExtract)
	}

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	return cfg
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	defer s.rateLimiter.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work without serving. Used when only Handler is needed.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// withRateLimit rejects clients that exceeded the limit for the endpoint
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded", "client", clientID(r), "path", r.URL.Path, "limit", info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", "error", err)
	}
}

// ErrorResponse is the body of every failed request. Status is only set on
// streamed error events, where the HTTP status has already been sent.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, ErrorResponse{Error: message})
}

// serviceError maps a service error onto a status and writes it.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal server error"
	} else {
		s.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	s.errorResponse(w, status, message)
}

// decodeJSON decodes and validates a request body.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &requestError{message: "Invalid request body: " + err.Error()}
	}
	if err := s.validator.Struct(dst); err != nil {
		return &requestError{message: validationMessage(err)}
	}
	return nil
}

// newValidator reports fields by their JSON names. The uuid_any tag accepts
// every form uuid.Parse does, in either case.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("uuid_any", func(fl validator.FieldLevel) bool {
		_, err := uuid.Parse(fl.Field().String())
		return err == nil
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requestError is a malformed or invalid request body
type requestError struct {
	message string
}

func (e *requestError) Error() string {
	return e.message
}

// validationMessage reports the first failed field of a validator error.
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", fe.Field(), fe.Tag())
	}
	return "validation error: invalid request"
}
