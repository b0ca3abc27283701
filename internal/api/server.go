// Package api serves generated Markdown as HTML and exposes the conversion
// status over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dgallion1/doxymark/internal/pipeline"
)

// Server is the HTTP preview server for doxymark.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	md           goldmark.Markdown
	log          *slog.Logger
	token        string
}

// NewServer creates and configures the HTTP server. When token is non-empty
// rebuilds require it as a bearer token.
func NewServer(orch *pipeline.Orchestrator, token string, log *slog.Logger) *Server {
	s := &Server{
		orchestrator: orch,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAttribute()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		log:   log,
		token: token,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/docs/*", s.handleDoc)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/stats", s.handleStats)

	r.Group(func(r chi.Router) {
		if s.token != "" {
			r.Use(AuthMiddleware(s.token, s.log))
		}
		r.Post("/api/rebuild", s.handleRebuild)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
