// Package server exposes the structure resolver as a JSON HTTP API.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lehigh-university-libraries/oaistruct/internal/mets"
	"github.com/lehigh-university-libraries/oaistruct/internal/query"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordFetcher retrieves a parsed OAI-PMH GetRecord response.
type RecordFetcher interface {
	GetRecord(ctx context.Context, id string) (*query.Document, error)
}

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	fetcher RecordFetcher
	pairing mets.AuthorPairing
	log     *slog.Logger
}

// New creates and configures the HTTP server.
func New(fetcher RecordFetcher, pairing mets.AuthorPairing, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		fetcher: fetcher,
		pairing: pairing,
		log:     log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(Instrument)

	r.Get("/healthcheck", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/records/{id}", func(r chi.Router) {
		r.Get("/structures", s.handleStructures)
		r.Get("/pages", s.handlePages)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		s.log.Error("Unable to write healthcheck", "err", err)
	}
}
