package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rainscope/internal/config"
	"rainscope/internal/observability"
	"rainscope/internal/server"
	"rainscope/internal/storage"
)

func TestHealthEndpoint(t *testing.T) {
	cfg := &config.Config{
		Port:             "8980",
		DryThresholdMM:   5.0,
		DrySpellDays:     14,
		WithdrawalSearch: "01-09",
		LocalReportsDir:  t.TempDir(),
		Environment:      "test",
	}

	srv, err := server.NewServer(context.Background(), cfg, storage.DeploymentLocal, observability.NewMetricsForTesting())
	if err != nil {
		t.Fatalf("server creation failed: %v", err)
	}
	defer srv.Close()

	req, err := http.NewRequest("GET", "/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	srv.HandleHealth(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusOK)
	}

	if !strings.Contains(rr.Body.String(), "healthy") {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestConfigLoad(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Setenv("PORT", "9000")
	cfg, err := config.Load(ctx)
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want the PORT override 9000", cfg.Port)
	}
}

func TestConfigLoadRejectsBadThreshold(t *testing.T) {
	ctx := context.Background()

	t.Setenv("DRY_THRESHOLD_MM", "-2")
	if _, err := config.Load(ctx); err == nil {
		t.Error("expected a negative threshold to fail validation")
	}
}
