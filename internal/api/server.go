// Package api provides the HTTP shell around the analysis core: it accepts
// log payloads, runs the sensing pipeline, hands the compact context to the
// reasoning layer, and packages both results into the response envelope.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/loglens/loglens/internal/analyzer"
	"github.com/loglens/loglens/pkg/models"
)

// Reasoner turns the analyzer's compact context into a structured
// bottleneck report. The analysis core never calls it; only this shell does.
type Reasoner interface {
	Reason(ctx context.Context, report string) (*models.Reasoning, int64, error)
}

// Server is the REST API server.
type Server struct {
	analyzer       *analyzer.Analyzer
	reasoner       Reasoner
	maxUploadBytes int64
	router         *chi.Mux
	server         *http.Server
}

// NewServer creates a new API server.
func NewServer(addr string, a *analyzer.Analyzer, reasoner Reasoner, maxUploadBytes int64) *Server {
	s := &Server{
		analyzer:       a,
		reasoner:       reasoner,
		maxUploadBytes: maxUploadBytes,
		router:         chi.NewRouter(),
	}

	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(120 * time.Second))

	// Browser frontends call this API directly.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/analyze/files", s.handleAnalyzeFiles)
	})
	s.router.Get("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}
