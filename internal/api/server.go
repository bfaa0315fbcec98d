// Package api serves galaxy generation over HTTP.
//
// Routes:
//
//	POST   /v1/galaxies             generate and store a galaxy
//	GET    /v1/galaxies             list stored galaxies, newest first
//	GET    /v1/galaxies/{id}        the galaxy's JSON document
//	GET    /v1/galaxies/{id}/map.svg star map
//	DELETE /v1/galaxies/{id}        remove a stored galaxy
//	GET    /healthz                 liveness
//
// Errors are JSON objects carrying the code from pkg/errors.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/matzehuels/stargen/pkg/pipeline"
	"github.com/matzehuels/stargen/pkg/store"
)

// Config configures the server.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// CORSOrigins lists allowed browser origins. Empty disables CORS.
	CORSOrigins []string

	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit float64
	Burst     int

	// MaxAttempts caps generation retries for API requests so a single
	// request cannot run unbounded.
	MaxAttempts int
}

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	cfg     Config
	limiter *rateLimiter
}

// New creates a server generating with runner and persisting to st.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = pipeline.DefaultMaxAttempts
	}
	s := &Server{runner: runner, store: st, logger: logger, cfg: cfg}
	if cfg.RateLimit > 0 {
		s.limiter = newRateLimiter(cfg.RateLimit, cfg.Burst)
	}
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler)
	}

	r.Get("/healthz", s.healthz)
	r.Route("/v1/galaxies", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.middleware)
		}
		r.Post("/", s.createGalaxy)
		r.Get("/", s.listGalaxies)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getGalaxy)
			r.Delete("/", s.deleteGalaxy)
			r.Get("/map.svg", s.getMap)
		})
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
