package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/deckgen-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	oauthService driving.OAuthService
	deckService  driving.DeckService
	authService  driving.AuthService

	// Infrastructure
	db          Pinger // PostgreSQL health check (optional)
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		AllowedOrigins: []string{"*"},
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	oauthService driving.OAuthService,
	deckService driving.DeckService,
	authService driving.AuthService,
	db Pinger, // can be nil
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:       http.NewServeMux(),
		version:      cfg.Version,
		oauthService: oauthService,
		deckService:  deckService,
		authService:  authService,
		db:           db,
		redisClient:  redisClient,
	}

	s.setupRoutes()

	handler := NewCORSMiddleware(cfg.AllowedOrigins).Handler(s.router)
	handler = NewLoggingMiddleware().Handler(handler)
	handler = NewRecoveryMiddleware().Handler(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	sessionMiddleware := NewSessionMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// OAuth flow endpoints (public - the browser is not yet authenticated)
	s.router.HandleFunc("GET /oauth/start", s.handleOAuthStart)
	s.router.HandleFunc("GET /oauth/callback", s.handleOAuthCallback)
	s.router.HandleFunc("POST /oauth/logout", s.handleLogout)

	// Splitter catalog (public)
	s.router.HandleFunc("GET /api/splitters", s.handleSplitters)

	// Deck creation requires a session
	s.router.Handle("POST /api/create-slides",
		sessionMiddleware.Authenticate(http.HandlerFunc(s.handleCreateSlides)))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
