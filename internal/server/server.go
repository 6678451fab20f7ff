// Package server exposes the flow query engine over HTTP.
//
// Every request carries a complete diagram as JSON; the service builds a
// fresh graph per request and keeps no state between calls.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/opmtools/opdflow/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds the size of an uploaded diagram.
const DefaultMaxBodyBytes = 4 << 20

const shutdownTimeout = 10 * time.Second

// Options configures a [Server].
type Options struct {
	Logger       *log.Logger
	MaxBodyBytes int64
}

// Server is the HTTP query service.
type Server struct {
	router       chi.Router
	runner       *pipeline.Runner
	logger       *log.Logger
	maxBodyBytes int64
}

// New builds a server with its routes registered.
func New(opts Options) *Server {
	s := &Server{
		logger:       opts.Logger,
		maxBodyBytes: opts.MaxBodyBytes,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}
	// Graphs are rebuilt per request; only analysis is needed, so no cache.
	s.runner = pipeline.NewRunner(nil, nil, s.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/initial", s.handleInitial)
		r.Post("/next", s.handleNext)
	})

	s.router = r
	return s
}

// Handler returns the root handler, for embedding or httptest.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
