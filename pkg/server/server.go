// Package server assembles the gateway's HTTP listener: routes, the
// middleware chain, optional TLS, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cartonex/gateway/pkg/config"
	"cartonex/gateway/pkg/proxy/middleware"
)

// Handlers carries the endpoint handlers the server routes to.
type Handlers struct {
	// Generate serves the generate endpoint.
	Generate http.Handler

	// Health and Ready serve the probes.
	Health http.Handler
	Ready  http.Handler

	// Usage serves the monthly ledger snapshot.
	Usage http.Handler

	// Metrics serves the Prometheus endpoint. Optional.
	Metrics http.Handler
}

// Server is the gateway's HTTP server.
type Server struct {
	config       config.ServerConfig
	handlers     Handlers
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server from config and handlers.
func New(cfg config.ServerConfig, handlers Handlers, logger *slog.Logger) (*Server, error) {
	if handlers.Generate == nil {
		return nil, fmt.Errorf("generate handler cannot be nil")
	}
	if handlers.Health == nil {
		return nil, fmt.Errorf("health handler cannot be nil")
	}
	if handlers.Ready == nil {
		return nil, fmt.Errorf("ready handler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:   cfg,
		handlers: handlers,
		logger:   logger.With("component", "server"),
	}, nil
}

// Start starts the listener and blocks until ctx is cancelled, a
// shutdown signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.buildHandler()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  90 * time.Second,
	}

	if s.config.TLS.Enabled {
		tlsConfig, err := s.config.TLS.Build()
		if err != nil {
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.httpServer.TLSConfig = tlsConfig
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting gateway server",
			"address", s.config.ListenAddress,
			"tls_enabled", s.config.TLS.Enabled,
		)

		var err error
		if s.config.TLS.Enabled {
			// Certificates come from TLSConfig; the file arguments stay empty.
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown drains in-flight requests within the shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("gateway server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the listener is up.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the fully assembled HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.buildHandler()
}

// buildHandler registers routes and wraps them in the middleware chain.
func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/v1/generate", s.handlers.Generate)
	mux.Handle("/health", s.handlers.Health)
	mux.Handle("/ready", s.handlers.Ready)
	if s.handlers.Usage != nil {
		mux.Handle("/v1/usage", s.handlers.Usage)
	}
	if s.handlers.Metrics != nil {
		mux.Handle("/metrics", s.handlers.Metrics)
	}

	var handler http.Handler = mux

	handler = middleware.Timeout(s.config.RequestTimeout)(handler)
	handler = middleware.CORS(s.corsConfig())(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// corsConfig maps the config section to the middleware's settings,
// falling back to defaults field by field.
func (s *Server) corsConfig() *middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(s.config.CORS.AllowedOrigins) > 0 {
		cors.AllowedOrigins = s.config.CORS.AllowedOrigins
	}
	if len(s.config.CORS.AllowedMethods) > 0 {
		cors.AllowedMethods = s.config.CORS.AllowedMethods
	}
	if len(s.config.CORS.AllowedHeaders) > 0 {
		cors.AllowedHeaders = s.config.CORS.AllowedHeaders
	}
	return cors
}
