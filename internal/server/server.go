// Package server exposes résumé generation and analysis over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/analysis"
	"github.com/jonathan/resume-studio/internal/documents"
	"github.com/jonathan/resume-studio/internal/fetch"
	"github.com/jonathan/resume-studio/internal/logger"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
)

// DefaultMaxUpload caps multipart request bodies.
const DefaultMaxUpload = 10 << 20

// JobFetcher turns a job posting URL into its text.
type JobFetcher func(ctx context.Context, url string) (string, error)

// Server holds the HTTP server and the services behind it.
type Server struct {
	httpServer *http.Server
	documents  *documents.Service
	analysis   *analysis.Service
	limiter    *ratelimit.Limiter
	fetchJob   JobFetcher
	corsOrigin string
	maxUpload  int64
}

// Option configures a Server.
type Option func(*Server)

// WithAnalysis enables the model-backed routes. Without it they answer 503.
func WithAnalysis(a *analysis.Service) Option {
	return func(s *Server) { s.analysis = a }
}

// WithRateLimiter replaces the limiter built from the environment.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithJobFetcher replaces the job posting downloader.
func WithJobFetcher(f JobFetcher) Option {
	return func(s *Server) { s.fetchJob = f }
}

// WithCORSOrigin sets the Access-Control-Allow-Origin value.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

// WithMaxUpload caps multipart bodies at n bytes.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// New builds a server listening on addr.
func New(addr string, docs *documents.Service, opts ...Option) *Server {
	s := &Server{
		documents:  docs,
		corsOrigin: "*",
		maxUpload:  DefaultMaxUpload,
		fetchJob: func(ctx context.Context, url string) (string, error) {
			return fetch.JobDescription(ctx, url, nil)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // model calls are slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /resume", s.handleSubmitResume)
	mux.HandleFunc("GET /resume", s.handlePollResume)
	mux.HandleFunc("GET /resume/{id}", s.handleGetDocument)
	mux.HandleFunc("GET /documents", s.handleListDocuments)

	mux.HandleFunc("POST /ats-score", s.handleATSScore)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /report", s.handleReport)
	mux.HandleFunc("POST /enhance", s.handleEnhance)

	return s.withRecover(s.withLogging(s.withRateLimit(s.withCORS(mux))))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.limiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.limiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging tags each request with an ID and logs it once it completes.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		reqLogger := logger.Logger.With().Str("request_id", requestID).Logger()
		r = r.WithContext(logger.WithContext(r.Context(), reqLogger))

		m := httpsnoop.CaptureMetrics(next, w, r)

		event := reqLogger.Info()
		if m.Code >= http.StatusInternalServerError {
			event = reqLogger.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", clientID(r)).
			Int("status", m.Code).
			Int64("bytes", m.Written).
			Dur("duration", m.Duration).
			Msg("request")
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.limiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		body := map[string]any{
			"error":     "rate_limit_exceeded",
			"message":   "Rate limit exceeded. Please try again later.",
			"limit":     info.Limit,
			"remaining": info.Remaining,
		}
		if info.RetryAfter > 0 {
			retry := int(info.RetryAfter.Seconds() + 0.5)
			body["retry_after"] = retry
			w.Header().Set("Retry-After", strconv.Itoa(retry))
		}
		logger.Ctx(r.Context()).Warn().Str("client", clientID(r)).Str("path", r.URL.Path).Msg("rate limit exceeded")
		s.jsonResponse(w, http.StatusTooManyRequests, body)
	})
}

func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				s.errorResponse(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// clientID identifies the caller by IP address.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
