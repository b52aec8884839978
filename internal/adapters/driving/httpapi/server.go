// Package httpapi serves the retrieval pipeline over HTTP: document
// upload, nearest-neighbour query and grounded ask, with JSON bodies
// throughout.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/logger"
)

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("httpapi: ingest service is required")

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("httpapi: retrieval service is required")

// Ports aggregates the driving port interfaces the HTTP API serves.
type Ports struct {
	// Ingest handles document uploads.
	Ingest driving.IngestService

	// Retrieval answers nearest-neighbour queries.
	Retrieval driving.RetrievalService

	// Answer generates grounded answers. Optional; /v1/ask returns
	// 503 without it.
	Answer driving.AnswerService

	// Session exposes the active session. Optional.
	Session driving.SessionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}

// Server is the docquery HTTP API server.
type Server struct {
	ports   *Ports
	router  chi.Router
	topK    int
	maxBody int64
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultTopK sets the top_k used when a request omits it.
func WithDefaultTopK(topK int) Option {
	return func(s *Server) {
		if topK > 0 {
			s.topK = topK
		}
	}
}

// WithMaxUploadBytes caps the accepted upload size.
func WithMaxUploadBytes(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxBody = limit
		}
	}
}

// NewServer creates an HTTP API server over the given ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:   ports,
		topK:    5,
		maxBody: 64 << 20, // 64 MiB upload cap
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/documents", s.handleUpload)
		r.Post("/query", s.handleQuery)
		r.Post("/ask", s.handleAsk)
		r.Get("/session", s.handleSession)
	})
	s.router = r

	return s, nil
}

// Handler returns the root HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// requestLogger writes one debug line per request through the
// application logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("http %s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}
