package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/jcabrera/civil-registry/internal/config"
	"github.com/jcabrera/civil-registry/internal/container"
	"github.com/jcabrera/civil-registry/pkg/utils"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = gotenv.Load()

	configPath := os.Getenv("REGISTRY_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting civil registry service",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	app, err := container.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build container", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shut down on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := app.Start(ctx); err != nil {
		logger.Error("Service exited with error", zap.Error(err))
	}

	if err := app.Close(); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Service stopped")
}
