// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/application/container"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/internal/presentation/http/server"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence and blocks until
// shutdown.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Build configuration exactly once.
	log.Println("Loading configuration...")
	cfg := config.FromEnv()

	// Step 2: Create the channeled logger.
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Logging initialized")

	// Step 3: Create dependency injection container.
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(ctx, cfg, logger)
	logger.Startup().Info("Container initialization complete",
		"subscriberBackend", appContainer.SubscriberStore.Name(),
		"emailConfigured", cfg.EmailConfigured(),
		"webhookTargets", len(cfg.WebhookURLs))

	// Step 4: Start HTTP server.
	logger.Startup().Info("Starting HTTP server...")
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
