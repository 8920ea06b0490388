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
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/lernify/internal/catalog"
	"github.com/jonathan/lernify/internal/config"
	"github.com/jonathan/lernify/internal/logging"
	"github.com/jonathan/lernify/internal/progress"
	"github.com/jonathan/lernify/internal/server/middleware"
	"github.com/jonathan/lernify/internal/server/ratelimit"
	"github.com/jonathan/lernify/internal/types"
	"golang.org/x/sync/errgroup"
)

const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	db              DBClient
	progress        *progress.Service
	catalog         *catalog.Catalog
	rateLimiter     *ratelimit.Limiter
	jwtService      *JWTService
	userService     *UserService
	authHandler     *AuthHandler
	validator       *validator.Validate
	logger          *logging.Logger
	corsOrigins     []string
	shutdownTimeout time.Duration
}

// Config holds server configuration
type Config struct {
	Port            int
	CORSOrigins     []string // empty allows any origin
	ShutdownTimeout time.Duration
}

// Deps are the collaborators the server is built from.
type Deps struct {
	DB          DBClient
	Progress    *progress.Service
	JWT         *JWTService
	Passwords   *config.PasswordConfig
	RateLimiter *ratelimit.Limiter // optional; loaded from the environment when nil
	Logger      *logging.Logger    // optional
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	switch {
	case deps.DB == nil:
		return nil, errors.New("server: DB is required")
	case deps.Progress == nil:
		return nil, errors.New("server: progress service is required")
	case deps.JWT == nil:
		return nil, errors.New("server: JWT service is required")
	case deps.Passwords == nil:
		return nil, errors.New("server: password config is required")
	}

	s := &Server{
		db:              deps.DB,
		progress:        deps.Progress,
		catalog:         deps.Progress.Catalog(),
		rateLimiter:     deps.RateLimiter,
		jwtService:      deps.JWT,
		validator:       types.NewValidator(),
		logger:          deps.Logger,
		corsOrigins:     cfg.CORSOrigins,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 30 * time.Second
	}

	s.userService = NewUserService(deps.DB, deps.Passwords)
	s.authHandler = NewAuthHandler(s.userService, deps.JWT, s.validator, s.logger)

	auth := middleware.AuthMiddleware(deps.JWT.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Accounts
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("GET /me", protected(s.handleGetMe))
	mux.Handle("PUT /me", protected(s.handleUpdateMe))

	// Domains and roadmaps
	mux.HandleFunc("GET /domains", s.handleListDomains)
	mux.Handle("POST /select-domain", protected(s.handleSelectDomain))
	mux.HandleFunc("GET /roadmap/{domain}", s.handleGetRoadmap)
	mux.Handle("GET /progress/{domain}", protected(s.handleGetProgress))

	// Assessments
	mux.Handle("POST /assessment/submit", protected(s.handleSubmitAssessment))
	mux.Handle("POST /assessment/final/{domain}", protected(s.handleFinalAssessment))
	mux.Handle("GET /dashboard/progress", protected(s.handleDashboard))

	// Video suggestions
	mux.Handle("POST /suggest-video", protected(s.handleSuggestVideo))
	mux.HandleFunc("GET /suggest-video/{domain}/{step_id}", s.handleListSuggestions)

	// Resume
	mux.Handle("POST /resume", protected(s.handleUpsertResume))
	mux.Handle("GET /resume", protected(s.handleGetResume))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured port until ctx is canceled or the process
// receives SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled. It releases the rate
// limiter when it returns.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(s.corsOrigins) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.corsOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
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

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		kv := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case rec.status >= 500:
			s.logger.Error("request", kv...)
		case rec.status >= 400:
			s.logger.Warn("request", kv...)
		default:
			s.logger.Info("request", kv...)
		}
	})
}

// handleHealth returns server and store health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health check failed", "error", err)
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "store": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "store": "ok"})
}

// handleRoot describes the API.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"app":     "LernifyRoad API",
		"domains": s.catalog.Domains(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, code, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message, "code": code})
}

// writeError maps err to a status and code. Server-side failures are logged
// and reported without their details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	message := err.Error()
	switch {
	case status == http.StatusServiceUnavailable:
		s.logger.Error("store unavailable", "path", r.URL.Path, "error", err)
		message = "service temporarily unavailable"
	case status >= 500:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		message = "internal server error"
	}
	s.errorResponse(w, status, code, message)
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON request body"}
	}
	return s.validate(dst)
}

func (s *Server) validate(v any) error {
	if err := s.validator.Struct(v); err != nil {
		field, message := types.DescribeValidationError(err)
		return &ErrValidation{Field: field, Message: message}
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// X-Forwarded-For is ignored; only the peer address is trusted.
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
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"code":      "rate_limit_exceeded",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded", "path", r.URL.Path, "limit", info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
