// Package container wires the application graph: database, repositories,
// event dispatcher, workflow service and HTTP adapter. Components are
// initialized in dependency order and torn down in reverse.
package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jcabrera/civil-registry/internal/application/dispatcher"
	"github.com/jcabrera/civil-registry/internal/application/port"
	"github.com/jcabrera/civil-registry/internal/application/service"
	"github.com/jcabrera/civil-registry/internal/config"
	"github.com/jcabrera/civil-registry/internal/infrastructure/persistence/repository"
	"github.com/jcabrera/civil-registry/internal/infrastructure/persistence/sqlite"
	"github.com/jcabrera/civil-registry/internal/infrastructure/storage"
	httpadapter "github.com/jcabrera/civil-registry/internal/interfaces/http"
	"github.com/jcabrera/civil-registry/pkg/database"
)

// Container manages all application dependencies and lifecycle
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	db          *database.DB
	txManager   *sqlite.DB
	submissions port.SubmissionRepository
	history     port.HistoryRepository
	documents   port.DocumentStore

	// Application
	dispatcher dispatcher.Dispatcher
	workflow   service.WorkflowService

	// Interfaces
	server *httpadapter.Server

	mu      sync.Mutex
	started atomic.Bool
	closed  atomic.Bool
}

// New creates a container from configuration. Call Start to initialize.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components and runs the HTTP server until ctx is
// cancelled
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	if !c.started.CompareAndSwap(false, true) {
		c.mu.Unlock()
		return fmt.Errorf("container already started")
	}

	// Database and migrations
	db, err := database.New(database.Config{
		Path:            c.config.Database.Path,
		MaxOpenConns:    c.config.Database.MaxOpenConns,
		MaxIdleConns:    c.config.Database.MaxIdleConns,
		ConnMaxLifetime: c.config.Database.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("initialize database: %w", err)
	}
	c.db = db

	migrator := database.NewMigrator(db, c.logger)
	if err := migrator.RunMigrations(c.config.Database.MigrationsDir); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("run migrations: %w", err)
	}

	// Repositories and transaction manager
	c.txManager = sqlite.NewDB(db.DB, c.logger)
	c.submissions = repository.NewSubmissionRepository(db.DB, c.logger)
	c.history = repository.NewHistoryRepository(db.DB, c.logger)

	// Document store
	c.documents = storage.NewLocalDocumentStore(c.config.Storage.DocumentDir, c.logger)

	// Audit sink
	c.dispatcher = dispatcher.NewDispatcher(
		dispatcher.WithLogger(&loggerAdapter{c.logger.Named("dispatcher")}),
	)
	auditHandler := dispatcher.NewAuditLogHandler(&loggerAdapter{c.logger.Named("audit")})
	for _, t := range dispatcher.AllEventTypes() {
		c.dispatcher.SubscribeNamed(t, "audit-log", auditHandler)
	}

	// Workflow service
	c.workflow = service.NewWorkflowService(
		c.submissions,
		c.history,
		c.txManager,
		c.dispatcher,
		&loggerAdapter{c.logger.Named("workflow")},
	)

	// HTTP adapter
	c.server = httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         c.config.Server.Host,
		Port:         c.config.Server.Port,
		ReadTimeout:  c.config.Server.ReadTimeout,
		WriteTimeout: c.config.Server.WriteTimeout,
		JWTSecret:    c.config.Auth.JWTSecret,
	}, c.workflow, c.documents, &loggerAdapter{c.logger.Named("http")})

	c.mu.Unlock()

	c.logger.Info("Container started")
	return c.server.Start(ctx)
}

// Close tears components down in reverse initialization order
func (c *Container) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.server != nil {
		if err := c.server.Stop(); err != nil {
			c.logger.Error("Failed to stop HTTP server", zap.Error(err))
		}
	}

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			return err
		}
	}

	c.logger.Info("Container closed")
	return nil
}

// Workflow exposes the workflow service (for tests and tooling)
func (c *Container) Workflow() service.WorkflowService {
	return c.workflow
}

// loggerAdapter adapts zap.Logger to the key-value Logger interfaces used by
// the application layer
type loggerAdapter struct {
	logger *zap.Logger
}

func (a *loggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, toZapFields(keysAndValues...)...)
}

func (a *loggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, toZapFields(keysAndValues...)...)
}

// toZapFields converts key-value pairs to zap fields
func toZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
