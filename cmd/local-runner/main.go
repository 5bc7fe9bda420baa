package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"rainscope/internal/config"
	"rainscope/internal/dataset"
	"rainscope/internal/reports"
	"rainscope/internal/storage"
	"rainscope/internal/timeseries"
)

// LocalRunner generates one dashboard snapshot on disk without the server
type LocalRunner struct {
	cfg       *config.Config
	loader    *dataset.Loader
	generator *reports.ReportGenerator
	storage   *storage.LocalStorageClient
}

func NewLocalRunner(cfg *config.Config) (*LocalRunner, error) {
	client, err := storage.NewLocalStorageClient(cfg.LocalReportsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare reports directory: %w", err)
	}
	return &LocalRunner{
		cfg:       cfg,
		loader:    dataset.NewLoader(cfg.RainColumn, nil),
		generator: reports.NewReportGenerator(),
		storage:   client,
	}, nil
}

func (lr *LocalRunner) GenerateTestSnapshot() error {
	ctx := context.Background()
	startTime := time.Now()

	log.Println("🚀 Starting local snapshot generation...")

	// Load the rainfall dataset
	log.Printf("📡 Loading rainfall data from %s...", lr.cfg.DataURL)
	ds, err := lr.loader.Load(ctx, lr.cfg.DataURL)
	if err != nil {
		return fmt.Errorf("dataset load failed: %w", err)
	}

	stats := ds.Series.Stats()
	log.Printf("✅ Dataset loaded successfully:")
	log.Printf("   Observations: %d", stats.Days)
	log.Printf("   Total Rainfall: %.1f mm", stats.Total)
	if start, end, ok := ds.Series.Bounds(); ok {
		log.Printf("   Window: %s to %s", timeseries.FormatDate(start), timeseries.FormatDate(end))
	}
	if ds.Dropped > 0 {
		log.Printf("   Dropped rows: %d", ds.Dropped)
	}

	// Generate and store every snapshot artifact
	log.Println("🎨 Generating snapshot files...")
	orchestrator := reports.NewStorageOrchestrator(lr.storage)
	result, err := lr.generator.GenerateCompleteReport(ctx, lr.cfg, lr.loader, nil, orchestrator)
	if err != nil {
		return fmt.Errorf("snapshot generation failed: %w", err)
	}

	// Confirm the report page actually landed on disk
	folderPath, _ := result["folderPath"].(string)
	indexPath := folderPath + "/index.html"
	exists, err := lr.storage.FileExists(ctx, indexPath)
	if err != nil || !exists {
		return fmt.Errorf("report page %s was not stored: %v", indexPath, err)
	}

	duration := time.Since(startTime)
	localPath := filepath.Join(lr.cfg.LocalReportsDir, filepath.FromSlash(indexPath))
	log.Printf("🎉 Snapshot completed in %v", duration)
	log.Printf("📁 Snapshot folder: %s", folderPath)
	log.Printf("🌐 Open in browser: file://%s", absOrSelf(localPath))

	summary := map[string]interface{}{
		"status":       "success",
		"folder_path":  folderPath,
		"duration_ms":  duration.Milliseconds(),
		"data_points":  result["dataPoints"],
		"timestamp":    result["timestamp"],
		"data_summary": map[string]interface{}{
			"observations": stats.Days,
			"total_mm":     stats.Total,
			"mean_mm":      stats.Mean,
		},
	}

	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")
	log.Printf("📊 Generation Summary:\n%s", summaryJSON)

	return nil
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if !strings.HasPrefix(cfg.DataURL, "http://") && !strings.HasPrefix(cfg.DataURL, "https://") {
		if _, err := os.Stat(cfg.DataURL); err != nil {
			log.Fatalf("❌ Data source %s is not readable: %v", cfg.DataURL, err)
		}
	}

	runner, err := NewLocalRunner(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to create runner: %v", err)
	}
	if err := runner.GenerateTestSnapshot(); err != nil {
		log.Fatalf("❌ Snapshot failed: %v", err)
	}
}
