package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apperrors "github.com/kbukum/whisperd/errors"
	"github.com/kbukum/whisperd/logger"
	"github.com/kbukum/whisperd/server/endpoint"
	"github.com/kbukum/whisperd/server/middleware"
)

// Server is the HTTP server backed by Gin, with any additional http.Handler
// mounts sharing the same port.
type Server struct {
	engine      *gin.Engine
	mux         *http.ServeMux
	middlewares []middleware.Middleware
	config      Config
	log         *logger.Logger

	mu         sync.Mutex
	httpServer *http.Server
	binding    Binding
	onError    func(error)
}

// New creates a new Server. No middleware is applied until ApplyMiddleware
// or Use is called.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	return &Server{
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log.WithComponent("server"),
	}
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handle mounts an http.Handler at the given pattern on the root ServeMux.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", map[string]interface{}{
		"pattern": pattern,
	})
}

// Use appends middleware to the server-level chain. The first middleware
// added is the outermost.
func (s *Server) Use(mw ...middleware.Middleware) {
	s.middlewares = append(s.middlewares, mw...)
}

// ApplyMiddleware installs the standard chain: recovery, request ID, CORS,
// body size limit and request logging.
func (s *Server) ApplyMiddleware() {
	s.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.config.CORS),
	)
	if s.config.MaxBodySize != "" {
		s.Use(middleware.BodySizeLimit(s.config.MaxBodySize))
	}
	s.Use(middleware.RequestLogger(s.log))
}

// Handler returns the full handler: middleware chain, mux and h2c.
func (s *Server) Handler() http.Handler {
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          time.Duration(s.config.IdleTimeout) * time.Second,
	}
	return h2c.NewHandler(middleware.Chain(s.middlewares...)(s.mux), h2s)
}

// SetErrorHandler registers fn to receive an error if serving stops
// unexpectedly after Start returned.
func (s *Server) SetErrorHandler(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
}

// Start resolves a free port, binds it and begins serving. It returns once
// the listener is bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	binding, err := ResolvePort(s.config.Host, s.config.Port, s.config.FallbackPorts)
	if err != nil {
		return err
	}
	if binding.Port != s.config.Port {
		s.log.Warn("Preferred port is busy, using fallback", map[string]interface{}{
			"preferred": s.config.Port,
			"port":      binding.Port,
		})
	}

	listener, err := net.Listen("tcp", binding.Addr())
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", binding.Addr(), err)
	}
	if tcp, ok := listener.Addr().(*net.TCPAddr); ok {
		binding.Port = tcp.Port
	}

	httpServer := &http.Server{
		Addr:              binding.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Duration(s.config.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(s.config.IdleTimeout) * time.Second,
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.binding = binding
	onError := s.onError
	s.mu.Unlock()

	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
			if onError != nil {
				onError(fmt.Errorf("http server: %w", err))
			}
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": binding.Addr(),
		"url":  binding.URL(),
	})
	return nil
}

// Stop gracefully shuts down the server within the configured shutdown
// timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()
	if httpServer == nil {
		return nil
	}

	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(s.config.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Binding returns the address chosen at Start. It is zero before Start.
func (s *Server) Binding() Binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.binding
}

// Running reports whether Start has bound a listener.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpServer != nil
}

// RegisterDefaultEndpoints registers /health, /v1/models, /info and
// /metrics. Unknown routes answer 404 in the OpenAI error envelope.
func (s *Server) RegisterDefaultEndpoints(serviceName string, model endpoint.ModelState, checker endpoint.HealthChecker, metrics http.Handler) {
	s.engine.GET("/health", endpoint.Health(model))
	s.engine.GET("/v1/models", endpoint.Models())
	s.engine.GET("/info", endpoint.Info(serviceName, checker))
	s.engine.GET("/metrics", endpoint.Metrics(metrics))
	s.engine.NoRoute(func(c *gin.Context) {
		RespondWithError(c, apperrors.NotFound("route"))
	})
}
