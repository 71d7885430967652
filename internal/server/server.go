// Package server implements the stowage HTTP API.
//
// # Routes
//
//   - GET  /healthz       build information
//   - POST /v1/layout     full layout for a request
//   - POST /v1/scale      container normalization, scale and dimension markers
//   - POST /v1/overlaps   overlap diagnostics only
//   - POST /v1/preview    floor-plan image (png or svg)
//
// Request bodies are JSON by default. YAML, TOML and msgpack are selected by
// Content-Type. Responses are JSON unless the client sends
// "Accept: application/msgpack".
//
// Layout options are query parameters (unit, offset, gap, max_instances,
// skip_overlaps, refresh). Preview adds format, width, height and labels.
// max_instances may not exceed the server's instance limit (WithMaxInstances).
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stowage/pkg/pipeline"
)

const (
	// maxBodyBytes caps request bodies.
	maxBodyBytes = 8 << 20

	shutdownTimeout = 5 * time.Second
)

// Server serves the HTTP API on top of a pipeline runner.
type Server struct {
	runner       *pipeline.Runner
	logger       *log.Logger
	defaults     pipeline.Options
	maxInstances int
	router       chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMaxInstances limits how many instances one request may expand to.
// n ≤ 0 keeps pipeline.DefaultMaxInstances.
func WithMaxInstances(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxInstances = n
		}
	}
}

// New creates a server. defaults seeds every request's options before query
// parameters are applied; its MaxInstances is lowered to the server limit.
// A nil logger means log.Default().
func New(runner *pipeline.Runner, logger *log.Logger, defaults pipeline.Options, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:       runner,
		logger:       logger,
		defaults:     defaults,
		maxInstances: pipeline.DefaultMaxInstances,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaults.MaxInstances <= 0 || s.defaults.MaxInstances > s.maxInstances {
		s.defaults.MaxInstances = s.maxInstances
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	// Set before mounting so sub-routers inherit them.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, &apiError{Status: http.StatusMethodNotAllowed, Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed"})
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/scale", s.handleScale)
		r.Post("/overlaps", s.handleOverlaps)
		r.Post("/preview", s.handlePreview)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
