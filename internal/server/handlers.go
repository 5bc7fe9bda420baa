package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"rainscope/internal/dataset"
	"rainscope/internal/logger"
	"rainscope/internal/reports"
)

// HandleRoot serves the interactive dashboard page
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.renderDashboard(w, s.buildDashboardData(r))
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"storage": "ok",
			"config":  "ok",
		},
	})
}

// HandleSnapshot generates a new report snapshot (HTTP handler)
func (s *Server) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Try to acquire the mutex - if already locked, return error immediately
	if !s.generateMutex.TryLock() {
		logger.Warn("Snapshot generation already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "Snapshot generation already in progress",
			"message": "Another snapshot is currently being generated. Please wait for it to complete before starting a new one.",
			"status":  "conflict",
		})
		return
	}

	// Ensure mutex is released when function exits
	defer s.generateMutex.Unlock()

	ctx := r.Context()
	storageOrchestrator := reports.NewStorageOrchestrator(s.Storage)
	result, err := s.ReportGenerator.GenerateCompleteReport(ctx, s.Config, s.Loader, s.Metrics, storageOrchestrator)
	if err != nil {
		logger.Error("Snapshot generation failed", err)
		writeError(w, statusForError(err), "Snapshot generation failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleListReports lists recent snapshots
func (s *Server) HandleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	// Get limit from query parameter (default 10)
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := fmt.Sscanf(limitStr, "%d", &limit); err != nil || parsedLimit != 1 {
			limit = 10
		}
		if limit < 1 {
			limit = 10
		}
		if limit > 100 {
			limit = 100 // Cap at 100
		}
	}

	reports, err := s.Storage.ListReports(ctx, limit)
	if err != nil {
		logger.Error("Failed to list snapshots", err)
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports":   reports,
		"count":     len(reports),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleFileProxy serves snapshot files from local storage or GCS
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Extract file path from URL (e.g., /files/2026/08/23/RainfallReport-.../index.html)
	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}

	// Security check: prevent directory traversal
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Use storage client to get file (works for both local and remote storage)
	fileData, err := s.Storage.GetFile(ctx, filePath)
	if err != nil {
		logger.Warn("Failed to get file from storage", map[string]interface{}{"path": filePath, "error": err.Error()})
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", GetContentType(filePath))
	w.Write(fileData)
}

// HandleStaticCSS serves the shared stylesheet for the dashboard page
func (s *Server) HandleStaticCSS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	css, err := s.ReportGenerator.GenerateStaticCSS()
	if err != nil {
		logger.Error("Failed to load stylesheet", err)
		http.Error(w, "Stylesheet not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/css")
	fmt.Fprint(w, css)
}

// loadDataset loads the configured rainfall source, writing the mapped error
// response on failure. The bool reports success.
func (s *Server) loadDataset(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	ds, err := s.Loader.Load(r.Context(), s.Config.DataURL)
	if err != nil {
		logger.Error("Failed to load rainfall dataset", err, map[string]interface{}{"source": s.Config.DataURL})
		writeError(w, statusForError(err), err.Error())
		return nil, false
	}
	return ds, true
}
