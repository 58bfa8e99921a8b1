// Package server provides the Career Hub JSON API: calculators, wage-report
// insights and quiz sessions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/career-hub/internal/calculators"
	"github.com/jonathan/career-hub/internal/db"
	"github.com/jonathan/career-hub/internal/insights"
	"github.com/jonathan/career-hub/internal/quiz"
	"github.com/jonathan/career-hub/internal/server/middleware"
	"github.com/jonathan/career-hub/internal/server/ratelimit"
	"github.com/jonathan/career-hub/internal/wages"
	"go.uber.org/zap"
)

// DeckStatsSource reports aggregate results per deck.
type DeckStatsSource interface {
	Stats(ctx context.Context, deckID string) (*db.DeckStats, error)
}

// SweepFunc removes expired sessions and returns how many went.
type SweepFunc func(ctx context.Context) (int, error)

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	logger        *zap.Logger
	allowedOrigin string

	reference *calculators.Reference
	report    *wages.Report
	engine    *insights.Engine
	narrator  *insights.Narrator
	quiz      *quiz.Service
	tokens    *SessionTokenService
	stats     DeckStatsSource

	rateLimiter   *ratelimit.Limiter
	sweep         SweepFunc
	sweepInterval time.Duration
	onShutdown    []func()
}

// Config holds server configuration and its dependencies.
// Narrator, Stats and Sweep are optional.
type Config struct {
	Port          int
	AllowedOrigin string
	Logger        *zap.Logger

	Reference *calculators.Reference
	Report    *wages.Report
	Engine    *insights.Engine
	Narrator  *insights.Narrator
	Quiz      *quiz.Service
	Tokens    *SessionTokenService
	Stats     DeckStatsSource

	RateLimit     *ratelimit.Config
	Sweep         SweepFunc
	SweepInterval time.Duration
	OnShutdown    []func()
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Reference == nil || cfg.Report == nil || cfg.Quiz == nil || cfg.Tokens == nil {
		return nil, fmt.Errorf("server requires reference tables, a wage report, a quiz service and a token service")
	}

	s := &Server{
		logger:        cfg.Logger,
		allowedOrigin: cfg.AllowedOrigin,
		reference:     cfg.Reference,
		report:        cfg.Report,
		engine:        cfg.Engine,
		narrator:      cfg.Narrator,
		quiz:          cfg.Quiz,
		tokens:        cfg.Tokens,
		stats:         cfg.Stats,
		sweep:         cfg.Sweep,
		sweepInterval: cfg.SweepInterval,
		onShutdown:    cfg.OnShutdown,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.allowedOrigin == "" {
		s.allowedOrigin = "*"
	}
	if s.engine == nil {
		s.engine = insights.New(insights.DefaultThresholds())
	}
	if s.sweepInterval <= 0 {
		s.sweepInterval = 10 * time.Minute
	}

	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rlConfig)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Narratives wait on the LLM
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed API with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Calculators
	mux.HandleFunc("GET /api/states", s.handleListStates)
	mux.HandleFunc("POST /api/calculators/unemployment", s.handleUnemployment)
	mux.HandleFunc("POST /api/calculators/certification-roi", s.handleCertificationROI)
	mux.HandleFunc("POST /api/calculators/fpl", s.handleFPL)
	mux.HandleFunc("POST /api/calculators/paycheck", s.handlePaycheck)
	mux.HandleFunc("POST /api/calculators/salary", s.handleSalary)

	// Wage report
	mux.HandleFunc("GET /api/wage-report", s.handleWageReport)
	mux.HandleFunc("GET /api/wage-report/occupations", s.handleListOccupations)
	mux.HandleFunc("GET /api/wage-report/insights", s.handleInsights)
	mux.HandleFunc("POST /api/wage-report/narrative", s.handleNarrative)

	// Quiz decks and sessions
	mux.HandleFunc("GET /api/decks", s.handleListDecks)
	mux.HandleFunc("GET /api/decks/{id}/stats", s.handleDeckStats)
	mux.HandleFunc("POST /api/decks/{id}/sessions", s.handleStartSession)

	auth := middleware.RequireSession(s.tokens.AsTokenValidator(), "id")
	mux.Handle("GET /api/sessions/{id}", auth(http.HandlerFunc(s.handleGetSession)))
	mux.Handle("POST /api/sessions/{id}/reveal", auth(http.HandlerFunc(s.handleReveal)))
	mux.Handle("POST /api/sessions/{id}/answer", auth(http.HandlerFunc(s.handleAnswer)))
	mux.Handle("POST /api/sessions/{id}/mark", auth(http.HandlerFunc(s.handleMark)))
	mux.Handle("POST /api/sessions/{id}/next", auth(http.HandlerFunc(s.handleNext)))
	mux.Handle("POST /api/sessions/{id}/review", auth(http.HandlerFunc(s.handleReview)))

	return mux
}

// Start listens until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sweepDone := make(chan struct{})
	go s.sweepLoop(ctx, sweepDone)

	var serveErr error
	select {
	case err := <-errCh:
		serveErr = err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	shutdownErr := s.httpServer.Shutdown(shutdownCtx)

	stop()
	<-sweepDone
	s.Close()

	if serveErr != nil {
		return fmt.Errorf("server error: %w", serveErr)
	}
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown failed: %w", shutdownErr)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work and releases dependencies.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, fn := range s.onShutdown {
		fn()
	}
	s.onShutdown = nil
}

func (s *Server) sweepLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	if s.sweep == nil {
		return
	}

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n, err := s.sweep(ctx)
			if err != nil {
				s.logger.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("expired quiz sessions removed", zap.Int("count", n))
			}
		case <-ctx.Done():
			return
		}
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"narrative": s.narrator != nil,
		"stats":     s.stats != nil,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status code. Internal errors are logged and
// their details withheld from the client.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a JSON request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Message: "invalid JSON body: " + err.Error()}
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
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
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
