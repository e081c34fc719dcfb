// Package api exposes the review pipeline, stored history and user
// accounts over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/huangsam/codecritic/core"
	"github.com/huangsam/codecritic/internal/auth"
	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/logging"
	"github.com/huangsam/codecritic/schema"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "AI Code Review Backend"

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Options configures the HTTP server.
type Options struct {
	CORSOrigins  []string
	RateLimit    int // requests per minute per client IP, 0 disables
	AuthRequired bool
	HistoryLimit int
}

// OptionsFromConfig derives server options from the validated config.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{
		CORSOrigins:  cfg.CORSOrigins,
		RateLimit:    cfg.RateLimit,
		AuthRequired: cfg.AuthRequired,
		HistoryLimit: cfg.HistoryLimit,
	}
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	reviewer *core.Reviewer
	reviews  contract.ReviewStore
	accounts *auth.Service
	opts     Options
	validate *validator.Validate
}

// NewServer creates a Server.
func NewServer(reviewer *core.Reviewer, reviews contract.ReviewStore, accounts *auth.Service, opts Options) *Server {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = contract.DefaultHistoryLimit
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{
		reviewer: reviewer,
		reviews:  reviews,
		accounts: accounts,
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		if s.opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
		}
		r.Use(auth.Middleware(s.accounts.Tokens(), false))

		r.Get("/health", s.handleHealth)

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.With(requireClaims).Get("/profile", s.handleProfile)
		})
		r.With(auth.RequireRole(schema.AdminRole)).Get("/admin/users", s.handleListUsers)

		r.Group(func(r chi.Router) {
			if s.opts.AuthRequired {
				r.Use(requireClaims)
			}
			r.Post("/review", s.handleReview)
			r.Get("/history", s.handleHistory)
			r.Get("/review/{id}", s.handleGetReview)
			r.Get("/analytics", s.handleAnalytics)

			r.Route("/ai", func(r chi.Router) {
				r.Post("/security-analysis", s.handleSecurityAnalysis)
				r.Post("/generate-tests", s.handleGenerateTests)
				r.Post("/explain", s.handleExplain)
				r.Post("/quality-prediction", s.handleQualityPrediction)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Bool("auth_required", s.opts.AuthRequired).Bool("ai_available", s.reviewer.AIAvailable()).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
