// Package server exposes the diagram pipeline over HTTP. It offers a
// stateless endpoint that turns protobuf source into PlantUML text and
// a render token, plus a small share API that persists generated
// diagrams under stable IDs.
package server

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/protouml/protouml/pkg/plantuml"
	"github.com/protouml/protouml/pkg/store"
	"github.com/protouml/protouml/pkg/uml"
)

// Deps holds the dependencies for the diagram server.
type Deps struct {
	Store    store.Store
	Layout   *uml.LayoutConfig
	Endpoint string
	Format   string
	Logger   *log.Logger
}

// Server serves the diagram and share APIs.
type Server struct {
	deps Deps
}

// New creates a Server, filling in defaults for unset dependencies.
func New(deps Deps) *Server {
	if deps.Store == nil {
		deps.Store = store.NewMemoryStore()
	}
	if deps.Layout == nil {
		lc := uml.DefaultLayoutConfig()
		deps.Layout = &lc
	}
	if deps.Endpoint == "" {
		deps.Endpoint = plantuml.DefaultEndpoint
	}
	if deps.Format == "" {
		deps.Format = "svg"
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	return &Server{deps: deps}
}

// Handler returns the HTTP handler for all server routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/diagrams", s.handleGenerate)
		r.Post("/shares", s.handleCreateShare)
		r.Get("/shares/{id}", s.handleGetShare)
	})

	return r
}

// logRequests logs each request with its method, path, status, and
// duration after the handler returns.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.deps.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", RequestID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
