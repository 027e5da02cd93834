package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/yojanasetu/apiserver/config"
	"github.com/yojanasetu/apiserver/internal/db"
	"github.com/yojanasetu/apiserver/internal/events"
	"github.com/yojanasetu/apiserver/internal/handlers"
	"github.com/yojanasetu/apiserver/internal/oauth"
	"github.com/yojanasetu/apiserver/internal/services"
	"github.com/yojanasetu/apiserver/internal/storage"
	"github.com/yojanasetu/apiserver/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server wraps the auth/profile HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	mongo      *mongo.Client
	events     events.Publisher
	logger     *zap.Logger
}

// New constructs the auth/profile API server, connecting all backing
// clients up front so missing configuration fails at startup.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	client, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	teardown := func() {
		_ = client.Disconnect(context.Background())
	}

	publisher, err := events.New(ctx, cfg.Events)
	if err != nil {
		teardown()
		return nil, err
	}

	avatars, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		teardown()
		return nil, err
	}

	var google *oauth.GoogleVerifier
	if strings.TrimSpace(cfg.Auth.GoogleClientID) != "" {
		google, err = oauth.NewGoogleVerifier(cfg.Auth)
		if err != nil {
			teardown()
			return nil, err
		}
	}

	database := client.Database(cfg.Mongo.DBName)
	accountRepo := store.NewAccountRepository(database)
	accountService := services.NewAccountService(accountRepo, publisher, logger)
	authHandler := handlers.NewAuthHandler(accountService, google, avatars, cfg.Auth.JWTSecret, cfg.ClientOrigin, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(logger),
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.NotFound(handlers.NotFound)
	router.Get("/", handlers.Root("Welcome to the Government Schemes API"))
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		mongo:      client,
		events:     publisher,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration and tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and closes the backing clients.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.events != nil {
		_ = s.events.Close()
	}
	if s.mongo != nil {
		_ = s.mongo.Disconnect(ctx)
	}
	return err
}
