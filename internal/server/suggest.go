package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yojanasetu/apiserver/config"
	"github.com/yojanasetu/apiserver/internal/db"
	"github.com/yojanasetu/apiserver/internal/gemini"
	"github.com/yojanasetu/apiserver/internal/handlers"
	"github.com/yojanasetu/apiserver/internal/services"
	"github.com/yojanasetu/apiserver/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SuggestServer wraps the suggestion HTTP server, which runs as its own
// process alongside the auth API.
type SuggestServer struct {
	httpServer *http.Server
	router     *chi.Mux
	mongo      *mongo.Client
	logger     *zap.Logger
}

// NewSuggest constructs the suggestion server. The generative-model API
// key is required; without it the process refuses to start.
func NewSuggest(ctx context.Context, cfg config.Config, logger *zap.Logger) (*SuggestServer, error) {
	generator, err := gemini.NewClient(ctx, cfg.GenAI)
	if err != nil {
		return nil, err
	}

	client, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	database := client.Database(cfg.Mongo.DBName)
	accountRepo := store.NewAccountRepository(database)
	schemeRepo := store.NewSchemeRepository(database)
	suggestionService := services.NewSuggestionService(accountRepo, schemeRepo, generator, logger)
	suggestHandler := handlers.NewSuggestHandler(suggestionService, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(logger),
		middleware.Timeout(120*time.Second),
	)
	router.NotFound(handlers.NotFound)
	router.Get("/", handlers.Root("Welcome to the Scheme Suggestion API. Use /suggest/{userId} to get scheme recommendations."))
	router.Get("/healthz", handlers.Healthz)
	router.Route("/suggest", func(r chi.Router) {
		handlers.SuggestRouter(r, suggestHandler)
	})

	port := cfg.SuggestPort
	if port == 0 {
		port = 8081
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &SuggestServer{
		httpServer: httpServer,
		router:     router,
		mongo:      client,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration and tests.
func (s *SuggestServer) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *SuggestServer) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and closes the backing clients.
func (s *SuggestServer) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.mongo != nil {
		_ = s.mongo.Disconnect(ctx)
	}
	return err
}
