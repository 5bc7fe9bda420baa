package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rainscope/internal/config"
	"rainscope/internal/logger"
	"rainscope/internal/observability"
	"rainscope/internal/server"
	"rainscope/internal/storage"
)

func main() {
	ctx := context.Background()

	// A .env file is optional; deployments set real environment variables
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	deploymentMode := storage.DeploymentLocal
	if cfg.GCSBucket != "" {
		deploymentMode = storage.DeploymentGCS
	}

	logger.Info("Starting Rainscope", map[string]interface{}{
		"version":         config.GetVersion(),
		"port":            cfg.Port,
		"environment":     cfg.Environment,
		"deployment_mode": string(deploymentMode),
		"data_url":        cfg.DataURL,
	})

	srv, err := server.NewServer(ctx, cfg, deploymentMode, observability.NewMetrics())
	if err != nil {
		logger.Fatal("Failed to create server", err)
	}
	defer srv.Close()

	// Warm the dataset cache so the first page view does not pay for the fetch
	go func() {
		if _, err := srv.Loader.Load(ctx, cfg.DataURL); err != nil {
			logger.Warn("Dataset prefetch failed", map[string]interface{}{
				"source": cfg.DataURL,
				"error":  err.Error(),
			})
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Longer timeout for snapshot generation
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", map[string]interface{}{"port": cfg.Port})
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}
