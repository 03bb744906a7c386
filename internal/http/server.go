// Package http serves the same-origin API: the data proxy, the auth
// endpoints and the report chart. The proxy keeps the privileged Supabase
// key server-side; browsers only ever hold a user token.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"

	"gastos/internal/charts"
	"gastos/internal/log"
	"gastos/internal/repository"
)

// Backend is the privileged data and auth plane the server runs on. It is
// satisfied by *repository.SupabaseRepository built with the service key.
type Backend interface {
	repository.Repository
	SignIn(ctx context.Context, email, password string) (types.Session, error)
	SignUp(ctx context.Context, email, password, fullName string) (types.User, error)
	UserFromToken(ctx context.Context, token string) (types.User, error)
}

// Config parameterizes the server.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
}

type Server struct {
	http.Server
	backend     Backend
	renderer    *charts.Renderer
	rateLimiter *rateLimiter
	logger      *log.Logger
	structured  *log.StructuredLogger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. A nil backend means the privileged key is absent: data and auth
// routes then fail closed with 503 instead of limping along.
func NewServer(cfg Config, backend Backend, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		backend:     backend,
		renderer:    charts.NewRenderer(),
		rateLimiter: newRateLimiter(cfg.RateLimitPerMinute),
		logger:      logger.WithComponent(log.ComponentHTTP),
	}
	s.structured = log.NewStructuredLogger(s.logger)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/data/proxy", s.withMiddleware(s.requireBackend(s.handleDataProxy)))
	mux.HandleFunc("/api/auth/login", s.withMiddleware(s.requireBackend(s.handleLogin)))
	mux.HandleFunc("/api/auth/register", s.withMiddleware(s.requireBackend(s.handleRegister)))
	mux.HandleFunc("/api/auth/session", s.withMiddleware(s.requireBackend(s.handleSession)))
	mux.HandleFunc("/api/reports/chart", s.withMiddleware(s.requireBackend(s.handleReportChart)))

	return s
}

// Shutdown stops the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, request logging and rate limiting
// on mutating methods.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, s.logger.With(log.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		s.structured.LogHTTPStart(ctx, r, clientIP)

		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			if !s.rateLimiter.allow(clientIP) {
				s.logger.WarnContext(ctx, "rate limit exceeded",
					log.FieldClientIP, clientIP, log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// requireBackend fails closed when the privileged key was not configured.
func (s *Server) requireBackend(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.backend == nil {
			writeError(w, http.StatusServiceUnavailable, "data plane not configured")
			return
		}
		next(w, r)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	return "req_" + uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.backend == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no backend"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
