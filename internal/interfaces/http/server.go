// Package http provides the HTTP adapter for the workflow service. It is a
// thin translation layer: authentication, request decoding and error-to-status
// mapping live here, submission semantics do not.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jcabrera/civil-registry/internal/application/port"
	"github.com/jcabrera/civil-registry/internal/application/service"
	"github.com/jcabrera/civil-registry/internal/domain/event"
	domainwf "github.com/jcabrera/civil-registry/internal/domain/workflow"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	JWTSecret    string
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
}

// NewServer creates a new HTTP server around the workflow service
func NewServer(
	config ServerConfig,
	workflow service.WorkflowService,
	documents port.DocumentStore,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		handlers: NewHandlers(workflow, documents, logger),
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.correlationMiddleware())
	s.router.Use(s.loggingMiddleware())
}

// correlationMiddleware assigns each request a correlation id (honoring a
// caller-supplied X-Request-ID) so the events a request emits form one chain
func (s *Server) correlationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader("X-Request-ID")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Header("X-Request-ID", cid)
		c.Request = c.Request.WithContext(event.WithCorrelationID(c.Request.Context(), cid))
		c.Next()
	}
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", event.CorrelationIDFrom(c.Request.Context()),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api/v1")
	api.Use(AuthMiddleware(s.config.JWTSecret))
	{
		api.POST("/documents", s.handlers.UploadDocument)

		api.POST("/submissions", s.handlers.CreateSubmission)
		api.GET("/submissions", s.handlers.ListSubmissions)
		api.GET("/submissions/:kind/:id", s.handlers.GetSubmission)
		api.GET("/submissions/:kind/:id/history", s.handlers.GetHistory)

		// Staff actions
		api.POST("/submissions/:kind/:id/approve", s.handlers.PerformAction(domainwf.TriggerApprove))
		api.POST("/submissions/:kind/:id/return", s.handlers.PerformAction(domainwf.TriggerReturn))
		api.POST("/submissions/:kind/:id/reject", s.handlers.PerformAction(domainwf.TriggerReject))
		api.POST("/submissions/:kind/:id/confirm-payment", s.handlers.PerformAction(domainwf.TriggerConfirmPayment))
		api.POST("/submissions/:kind/:id/reject-payment", s.handlers.PerformAction(domainwf.TriggerRejectPayment))
		api.POST("/submissions/:kind/:id/complete", s.handlers.PerformAction(domainwf.TriggerComplete))

		// Citizen actions
		api.POST("/submissions/:kind/:id/pay", s.handlers.PerformAction(domainwf.TriggerSubmitPayment))
		api.POST("/submissions/:kind/:id/resubmit", s.handlers.PerformAction(domainwf.TriggerResubmit))
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
