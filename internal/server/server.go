package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rainscope/internal/config"
	"rainscope/internal/dataset"
	"rainscope/internal/logger"
	"rainscope/internal/observability"
	"rainscope/internal/reports"
	"rainscope/internal/storage"
)

// Server represents the main application server
type Server struct {
	Config          *config.Config
	Loader          *dataset.Loader
	ReportGenerator *reports.ReportGenerator
	Storage         storage.StorageClient
	Metrics         *observability.Metrics
	DeploymentMode  storage.DeploymentMode

	// Serializes snapshot generation; concurrent requests are rejected
	generateMutex sync.Mutex
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, cfg *config.Config, deploymentMode storage.DeploymentMode, metrics *observability.Metrics) (*Server, error) {
	storageClient, err := storage.NewStorageClient(ctx, deploymentMode, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	logger.Info("Server initialized", map[string]interface{}{
		"deployment_mode": string(deploymentMode),
		"data_url":        cfg.DataURL,
	})

	return &Server{
		Config:          cfg,
		Loader:          dataset.NewLoader(cfg.RainColumn, metrics),
		ReportGenerator: reports.NewReportGenerator(),
		Storage:         storageClient,
		Metrics:         metrics,
		DeploymentMode:  deploymentMode,
	}, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Handle specific API routes first
	mux.HandleFunc("/health", s.HandleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/static/styles.css", s.HandleStaticCSS)
	mux.HandleFunc("/api/series", s.HandleSeries)
	mux.HandleFunc("/api/summary", s.HandleSummary)
	mux.HandleFunc("/api/withdrawal", s.HandleWithdrawal)
	mux.HandleFunc("/api/climatology", s.HandleClimatology)
	mux.HandleFunc("/export/csv", s.HandleExportCSV)
	mux.HandleFunc("/charts/series.png", s.HandleSeriesPNG)
	mux.HandleFunc("/charts/climatology.png", s.HandleClimatologyPNG)
	mux.HandleFunc("/charts/anomaly.png", s.HandleAnomalyPNG)
	mux.HandleFunc("/snapshot", s.HandleSnapshot)
	mux.HandleFunc("/reports", s.HandleListReports)
	mux.HandleFunc("/files/", s.HandleFileProxy)

	// Handle root path last (catch-all)
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// Handler returns the route mux wrapped with request instrumentation
func (s *Server) Handler() http.Handler {
	return Instrument(s.SetupRoutes(), s.Metrics)
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
