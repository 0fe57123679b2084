package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/proxy"
	"mercator-hq/switchboard/pkg/proxy/handlers"
	"mercator-hq/switchboard/pkg/proxy/middleware"
	"mercator-hq/switchboard/pkg/proxy/types"
	"mercator-hq/switchboard/pkg/routing"
	servertls "mercator-hq/switchboard/pkg/security/tls"
)

// Options wires the server to the routing core.
type Options struct {
	// Completer serves chat completions.
	Completer routing.Completer

	// Catalog supplies the model list for /v1/models.
	Catalog handlers.CatalogSource

	// Metrics is mounted at MetricsPath when non-nil.
	Metrics http.Handler

	// MetricsPath is the metrics endpoint path. Default: "/metrics"
	MetricsPath string

	// Logger is used for lifecycle and handler logs. Default: slog.Default()
	Logger *slog.Logger
}

// Server is the HTTP proxy server.
type Server struct {
	config       *config.ProxyConfig
	opts         Options
	logger       *slog.Logger
	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new proxy server.
func NewServer(cfg *config.ProxyConfig, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	return &Server{
		config: cfg,
		opts:   opts,
		logger: opts.Logger,
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled or the server fails. With
// proxy.tls enabled the connection is served over HTTPS.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var tlsCfg *tls.Config
	if s.config.TLS.Enabled {
		var err error
		tlsCfg, err = servertls.NewServerConfig(ctx, &s.config.TLS, s.logger)
		if err != nil {
			ln.Close()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		ln.Close()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		TLSConfig:      tlsCfg,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting proxy server", "address", ln.Addr().String(), "tls", tlsCfg != nil)
		var err error
		if tlsCfg != nil {
			err = httpServer.ServeTLS(ln, "", "")
		} else {
			err = httpServer.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		if ok {
			return err
		}
		return nil
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		httpServer := s.httpServer
		running := s.isRunning
		s.mu.Unlock()
		if !running || httpServer == nil {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			// Drop streams that outlived the timeout.
			httpServer.Close()
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("proxy server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the address the server is listening on, or "" before Serve.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler returns the routed and middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Outermost first.
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.TracingMiddleware)
	r.Use(middleware.CORSMiddleware(middleware.NewCORSConfig(s.config.CORS)))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", handlers.Health)
	r.Get("/v1/models", handlers.NewModelsHandler(s.opts.Catalog).ServeHTTP)
	r.Post("/v1/chat/completions", handlers.NewChatHandler(s.opts.Completer, s.logger).ServeHTTP)

	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, s.opts.MetricsPath, s.opts.Metrics)
	}

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	proxy.WriteErrorResponse(w, types.NewNotFoundError(fmt.Sprintf("Unknown path %s", r.URL.Path)))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	proxy.WriteErrorResponse(w, types.NewInvalidRequestError(
		fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path),
		"method",
		types.CodeMethodNotAllowed,
	))
}
