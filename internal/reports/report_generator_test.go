package reports

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rainscope/internal/config"
	"rainscope/internal/dataset"
	"rainscope/internal/observability"
	"rainscope/internal/storage"
	"rainscope/internal/timeseries"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		DataURL:          filepath.Join(dir, "rainfall.csv"),
		DryThresholdMM:   5,
		DrySpellDays:     14,
		WithdrawalSearch: "01-09",
		LocalReportsDir:  filepath.Join(dir, "reports"),
		Environment:      "development",
	}
}

func TestBuildReportData(t *testing.T) {
	fixture := testReportData(t)
	ds := &dataset.Dataset{
		Source:   "rainfall.csv",
		Series:   fixture.Series,
		Latitude: fptr(30.463),
	}
	cfg := testConfig(t.TempDir())

	data, err := BuildReportData(ds, cfg, fixture.GeneratedAt)
	if err != nil {
		t.Fatalf("BuildReportData failed: %v", err)
	}

	if data.TargetYear != 2021 {
		t.Errorf("TargetYear = %d, want 2021", data.TargetYear)
	}
	if data.Level != timeseries.Monthly {
		t.Errorf("Level = %s, want monthly", data.Level)
	}
	if data.Aggregated.Len() != 3 {
		t.Errorf("Aggregated months = %d, want 3", data.Aggregated.Len())
	}
	if len(data.Climatology) == 0 {
		t.Error("Expected climatology points for the target year")
	}
	if !data.Withdrawal.Found {
		t.Error("Expected the withdrawal search to succeed")
	}
	if got := timeseries.FormatDate(data.Withdrawal.Date); got != "01-09-2021" {
		t.Errorf("Withdrawal date = %s, want 01-09-2021", got)
	}
	if got := timeseries.FormatDate(data.Withdrawal.Query.SearchStart); got != "01-09-2021" {
		t.Errorf("Search start = %s, want 01-09-2021", got)
	}
}

func TestBuildReportDataEmptyDataset(t *testing.T) {
	ds := &dataset.Dataset{Source: "empty.csv"}
	cfg := testConfig(t.TempDir())

	if _, err := BuildReportData(ds, cfg, timeseries.DateOnly(cfg.WithdrawalSearchDate(2021))); err == nil {
		t.Error("Expected error for a dataset without observations")
	}
}

func TestGenerateHTML(t *testing.T) {
	data := testReportData(t)
	rg := NewReportGenerator()

	html, err := rg.GenerateHTML(data, BuildMarkdownSummary(data))
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}

	expected := []string{
		"<!DOCTYPE html>",
		"30.463, 79.525",
		"chart-rainfall-trend",
		"Monsoon Withdrawal",
	}
	for _, want := range expected {
		if !strings.Contains(html, want) {
			t.Errorf("Generated page missing %q", want)
		}
	}
}

func TestGenerateSummaryHTML(t *testing.T) {
	data := testReportData(t)
	rg := NewReportGenerator()

	html, err := rg.GenerateSummaryHTML(data)
	if err != nil {
		t.Fatalf("GenerateSummaryHTML failed: %v", err)
	}

	if !strings.Contains(html, "Monsoon Withdrawal") {
		t.Error("Summary missing the withdrawal section")
	}
	if !strings.Contains(html, "<strong>01-09-2021</strong>") {
		t.Error("Summary missing the withdrawal date")
	}
	if strings.Contains(html, "{{.SeriesChart}}") {
		t.Error("Embedded summary still carries a raw chart placeholder")
	}
	if strings.Contains(html, "chart-rainfall-trend") {
		t.Error("Embedded summary should leave the charts to the host page")
	}
}

func TestGenerateCompleteReport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := testConfig(dir)

	// Write the fixture record as a source CSV for the loader
	fixture := testReportData(t)
	var csv strings.Builder
	if err := fixture.Series.WriteCSV(&csv); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if err := os.WriteFile(cfg.DataURL, []byte(csv.String()), 0644); err != nil {
		t.Fatalf("Failed to write source CSV: %v", err)
	}

	metrics := observability.NewMetricsForTesting()
	loader := dataset.NewLoader("", metrics)
	store, err := storage.NewLocalStorageClient(cfg.LocalReportsDir)
	if err != nil {
		t.Fatalf("NewLocalStorageClient failed: %v", err)
	}
	defer store.Close()

	rg := NewReportGenerator()
	result, err := rg.GenerateCompleteReport(ctx, cfg, loader, metrics, NewStorageOrchestrator(store))
	if err != nil {
		t.Fatalf("GenerateCompleteReport failed: %v", err)
	}

	if result["status"] != "success" {
		t.Errorf("status = %v, want success", result["status"])
	}
	if result["dataPoints"] != fixture.Series.Len() {
		t.Errorf("dataPoints = %v, want %d", result["dataPoints"], fixture.Series.Len())
	}

	reportURL, _ := result["reportURL"].(string)
	if !strings.HasPrefix(reportURL, "/files/") || !strings.HasSuffix(reportURL, "/index.html") {
		t.Errorf("reportURL = %q, want /files/<folder>/index.html", reportURL)
	}

	folderPath, _ := result["folderPath"].(string)
	exists, err := store.FileExists(ctx, folderPath+"/index.html")
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if !exists {
		t.Error("Stored snapshot missing index.html")
	}

	reports, err := store.ListReports(ctx, 10)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("Stored reports = %d, want 1", len(reports))
	}
}
