// Package server provides the HTTP REST API for the essay coach.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/everwrite/essay-coach/internal/config"
	"github.com/everwrite/essay-coach/internal/db"
	"github.com/everwrite/essay-coach/internal/server/middleware"
	"github.com/everwrite/essay-coach/internal/server/ratelimit"
	"github.com/everwrite/essay-coach/internal/types"
)

// ReviewAPI is the review service surface the handlers need.
type ReviewAPI interface {
	CreateAssist(ctx context.Context, essayPrompt, content string) (*db.Assist, error)
	GetAssist(ctx context.Context, assistID string) (*db.Assist, error)
	SaveContent(ctx context.Context, assistID, content string) error
	GenerateReview(ctx context.Context, req types.ReviewRequest) (*types.ReviewResponse, error)
	ApplySuggestion(ctx context.Context, assistID string, req types.ApplySuggestionRequest) (string, error)
	SkipSuggestion(ctx context.Context, assistID, suggestionUUID string) error
	ActiveSuggestions(ctx context.Context, assistID string) ([]types.Suggestion, error)
	Versions(ctx context.Context, assistID string) ([]types.EssayVersion, error)
	Scores(ctx context.Context, assistID string) ([]types.ReviewScore, error)
}

// ChatAPI is the chat service surface the handlers need.
type ChatAPI interface {
	Send(ctx context.Context, assistID string, req types.ChatRequest) (types.ChatMessage, error)
	History(ctx context.Context, assistID string) ([]types.ChatMessage, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	reviews       ReviewAPI
	chats         ChatAPI
	rateLimiter   *ratelimit.Limiter
	logger        *zap.Logger
	reviewTimeout time.Duration
}

// Config holds server configuration
type Config struct {
	Port          int
	ReviewTimeout time.Duration
}

// New creates a new server instance
func New(cfg Config, reviews ReviewAPI, chats ChatAPI, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReviewTimeout == 0 {
		cfg.ReviewTimeout = 60 * time.Second
	}

	s := &Server{
		reviews:       reviews,
		chats:         chats,
		logger:        logger,
		reviewTimeout: cfg.ReviewTimeout,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	var validator middleware.TokenValidator
	if jwtConfig != nil {
		validator = NewJWTService(jwtConfig).AsTokenValidator()
		logger.Info("JWT auth enabled")
	}
	authed := middleware.AuthMiddleware(validator)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Assist lifecycle
	mux.Handle("POST /assists", authed(http.HandlerFunc(s.handleCreateAssist)))
	mux.Handle("GET /assists/{id}", authed(http.HandlerFunc(s.handleGetAssist)))
	mux.Handle("PUT /assists/{id}/content", authed(http.HandlerFunc(s.handleSaveContent)))

	// Review rounds
	mux.Handle("POST /assists/{id}/review", authed(http.HandlerFunc(s.handleReview)))
	mux.Handle("GET /assists/{id}/versions", authed(http.HandlerFunc(s.handleVersions)))
	mux.Handle("GET /assists/{id}/scores", authed(http.HandlerFunc(s.handleScores)))

	// Suggestions
	mux.Handle("GET /assists/{id}/suggestions", authed(http.HandlerFunc(s.handleListSuggestions)))
	mux.Handle("POST /assists/{id}/suggestions/{suggestion_id}/apply", authed(http.HandlerFunc(s.handleApplySuggestion)))
	mux.Handle("POST /assists/{id}/suggestions/{suggestion_id}/skip", authed(http.HandlerFunc(s.handleSkipSuggestion)))

	// Counselor chat
	mux.Handle("GET /assists/{id}/chat", authed(http.HandlerFunc(s.handleChatHistory)))
	mux.Handle("POST /assists/{id}/chat", authed(http.HandlerFunc(s.handleChat)))
	mux.Handle("POST /assists/{id}/chat/stream", authed(http.HandlerFunc(s.handleChatStream)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Long timeout for AI-backed rounds
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the configured handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
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
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError writes an error response with the status mapped from the
// service error taxonomy.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	body := map[string]any{"error": err.Error()}
	if Retryable(err) {
		body["retryable"] = true
	}
	s.jsonResponse(w, status, body)
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
