package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/showtrack/internal/api/handlers"
	"github.com/amaumene/showtrack/internal/api/middleware"
	"github.com/amaumene/showtrack/internal/config"
	"github.com/amaumene/showtrack/internal/controllers"
	"github.com/amaumene/showtrack/internal/metrics"
	"github.com/amaumene/showtrack/internal/sessions"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators the HTTP layer is built from
type Dependencies struct {
	Accounts *controllers.AccountController
	Shows    *controllers.ShowController
	Sessions sessions.Store
	Metrics  *metrics.Metrics // optional
	Checks   map[string]handlers.HealthCheck
}

const (
	defaultWriteTimeout = 15 * time.Second

	// POST /api/shows may wait on every image provider in turn
	imageProviders = 2
)

// writeTimeout leaves room for a create request that exhausts every
// image provider before falling back to the placeholder
func writeTimeout(cfg *config.Config) time.Duration {
	need := time.Duration(imageProviders)*cfg.ImageLookupTimeout + 5*time.Second
	if need > defaultWriteTimeout {
		return need
	}
	return defaultWriteTimeout
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Dependencies, logger *logrus.Logger) *Server {
	s := &Server{logger: logger}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      NewHandler(cfg, deps, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// NewHandler builds the routed, logged handler tree
func NewHandler(cfg *config.Config, deps Dependencies, logger *logrus.Logger) http.Handler {
	mux := http.NewServeMux()
	setupRoutes(mux, cfg, deps, logger)
	return middleware.Logging(mux, logger, deps.Metrics)
}

// setupRoutes configures all HTTP routes
func setupRoutes(mux *http.ServeMux, cfg *config.Config, deps Dependencies, logger *logrus.Logger) {
	gate := middleware.NewSessionGate(deps.Sessions, cfg.SessionTTL, cfg.SessionCookieSecure, logger)
	authed := func(h http.HandlerFunc) http.Handler {
		return gate.Require(h)
	}

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.Checks, logger)
	mux.Handle("GET /health", healthHandler)

	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	// Accounts
	authHandler := handlers.NewAuthHandler(deps.Accounts, gate, logger)
	mux.HandleFunc("POST /api/auth/check-user", authHandler.CheckUser)
	mux.HandleFunc("POST /api/auth/create-user", authHandler.CreateUser)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/auth/user", authed(authHandler.CurrentUser))

	// Watchlist
	showsHandler := handlers.NewShowsHandler(deps.Shows, logger)
	mux.Handle("GET /api/shows", authed(showsHandler.List))
	mux.Handle("POST /api/shows", authed(showsHandler.Create))
	mux.Handle("PATCH /api/shows/{id}", authed(showsHandler.Update))
	mux.Handle("DELETE /api/shows/{id}", authed(showsHandler.Delete))
	mux.Handle("GET /api/stats", authed(showsHandler.Stats))
}

// Start starts the HTTP server and blocks until it fails or ctx is
// cancelled, in which case it shuts the server down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
