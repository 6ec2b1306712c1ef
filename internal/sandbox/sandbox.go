// Package sandbox serves a complete FlowBoard backend from process
// memory. It exists so the CLI and the view-model packages can run
// against a real HTTP surface without a database: every endpoint,
// envelope and error body matches the production API. Data lives for
// the lifetime of the process.
package sandbox

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Demo account created when Options.Seed is set.
const (
	DemoEmail    = "demo@flowboard.dev"
	DemoPassword = "demo1234"
)

type Options struct {
	Logger    *slog.Logger
	AIEnabled bool
	Seed      bool
}

type Server struct {
	data      *dataset
	tokens    *tokenSigner
	logger    *slog.Logger
	router    *chi.Mux
	api       huma.API
	aiEnabled bool
}

func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tokens, err := newTokenSigner()
	if err != nil {
		return nil, err
	}

	s := &Server{
		data:      newDataset(),
		tokens:    tokens,
		logger:    logger,
		router:    chi.NewRouter(),
		aiEnabled: opts.AIEnabled,
	}
	if opts.Seed {
		s.data.seedDemo()
	}
	s.routes()
	s.logger.Info("sandbox initialized", "seeded", opts.Seed, "ai_enabled", opts.AIEnabled)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.api.OpenAPI()
}

func (s *Server) routes() {
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.authMiddleware)

	config := huma.DefaultConfig("FlowBoard Sandbox API", "1.0.0")
	config.OpenAPIPath = "/openapi"
	config.DocsPath = ""

	s.api = humachi.New(s.router, config)
	huma.Get(s.api, "/api/health", s.health)
	s.registerAuthOperations()
	s.registerOrgOperations()
	s.registerProjectOperations()
	s.registerBoardOperations()
	s.registerColumnOperations()
	s.registerLabelOperations()
	s.registerTemplateOperations()
	s.registerCardOperations()
	s.registerLinkOperations()
	s.registerSprintOperations()
	s.registerNotificationOperations()
	s.registerAIOperations()
}

type healthOutput struct {
	Body struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
}

func (s *Server) health(_ context.Context, _ *struct{}) (*healthOutput, error) {
	out := &healthOutput{}
	out.Body.Status = "ok"
	out.Body.Database = "healthy"
	return out, nil
}
