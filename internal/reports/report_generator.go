package reports

import (
	"context"
	"fmt"
	"time"

	"rainscope/internal/config"
	"rainscope/internal/dataset"
	"rainscope/internal/logger"
	"rainscope/internal/observability"
	"rainscope/internal/season"
	"rainscope/internal/timeseries"
)

// StorageInterface defines the interface for storing generated snapshots
type StorageInterface interface {
	StoreAllFiles(ctx context.Context, files *GeneratedFiles, timestamp time.Time) error
}

// ReportData carries everything one snapshot derives from the loaded dataset
type ReportData struct {
	Source    string
	Latitude  *float64
	Longitude *float64

	// Series is the full daily record. Aggregated is the same record at
	// Level, which is what the report's trend chart shows; the explorer
	// page keeps the daily detail.
	Series     timeseries.Series
	Level      timeseries.Level
	Aggregated timeseries.Series

	TargetYear  int
	Climatology []season.ClimatologyPoint
	Withdrawal  WithdrawalSummary
	GeneratedAt time.Time
}

// WithdrawalSummary records the dry-spell search a snapshot ran and its
// outcome. Found false means the season never settled into a dry spell.
type WithdrawalSummary struct {
	Query season.Query
	Date  time.Time
	Found bool
}

// BuildReportData assembles a snapshot's inputs from a loaded dataset. The
// target year is the most recent year with observations; the withdrawal
// search uses the configured defaults within that year.
func BuildReportData(ds *dataset.Dataset, cfg *config.Config, now time.Time) (*ReportData, error) {
	years := season.Years(ds.Series)
	if len(years) == 0 {
		return nil, fmt.Errorf("dataset has no observations")
	}
	targetYear := years[len(years)-1]

	q := season.Query{
		SearchStart:     cfg.WithdrawalSearchDate(targetYear),
		ThresholdMM:     cfg.DryThresholdMM,
		ConsecutiveDays: cfg.DrySpellDays,
	}
	withdrawal, found, err := season.FindWithdrawal(ds.Series, q)
	if err != nil {
		return nil, fmt.Errorf("withdrawal search failed: %w", err)
	}

	return &ReportData{
		Source:      ds.Source,
		Latitude:    ds.Latitude,
		Longitude:   ds.Longitude,
		Series:      ds.Series,
		Level:       timeseries.Monthly,
		Aggregated:  ds.Series.Aggregate(timeseries.Monthly),
		TargetYear:  targetYear,
		Climatology: season.Climatology(ds.Series, targetYear),
		Withdrawal:  WithdrawalSummary{Query: q, Date: withdrawal, Found: found},
		GeneratedAt: now,
	}, nil
}

// ReportGenerator handles report generation and HTML conversion
type ReportGenerator struct {
	htmlBuilder *HTMLBuilder
}

// NewReportGenerator creates a new report generator
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{
		htmlBuilder: NewHTMLBuilder(),
	}
}

// GenerateHTML converts the markdown summary into the complete report page
// with embedded interactive charts
func (rg *ReportGenerator) GenerateHTML(data *ReportData, markdownContent string) (string, error) {
	chartData, err := rg.htmlBuilder.GenerateChartData(data.Aggregated, data.Level, data.Climatology, data.TargetYear)
	if err != nil {
		return "", fmt.Errorf("failed to generate charts: %w", err)
	}

	processedContent, err := rg.htmlBuilder.ProcessMarkdownWithPlaceholders(markdownContent, chartData)
	if err != nil {
		return "", fmt.Errorf("failed to process markdown: %w", err)
	}

	finalHTML, err := rg.htmlBuilder.BuildCompleteHTML(processedContent, data, chartData)
	if err != nil {
		return "", fmt.Errorf("failed to build complete HTML: %w", err)
	}

	return finalHTML, nil
}

// GenerateSummaryHTML renders the season summary on its own, for embedding
// in a page that already shows the charts. Chart placeholders resolve empty.
func (rg *ReportGenerator) GenerateSummaryHTML(data *ReportData) (string, error) {
	markdown := BuildMarkdownSummary(data)
	return rg.htmlBuilder.ProcessMarkdownWithPlaceholders(markdown, &ChartTemplateData{})
}

// GenerateStaticCSS returns the stylesheet content saved next to each report
func (rg *ReportGenerator) GenerateStaticCSS() (string, error) {
	return rg.htmlBuilder.LoadStaticCSS()
}

// GenerateCompleteReport handles the complete snapshot pipeline
func (rg *ReportGenerator) GenerateCompleteReport(ctx context.Context,
	cfg *config.Config,
	loader *dataset.Loader,
	metrics *observability.Metrics,
	storageOrchestrator StorageInterface) (map[string]interface{}, error) {

	started := time.Now()
	logger.Info("Starting report snapshot generation")

	// Step 1: Load the rainfall dataset
	ds, err := loader.Load(ctx, cfg.DataURL)
	if err != nil {
		return nil, err
	}
	data, err := BuildReportData(ds, cfg, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	// Step 2: Build the markdown summary
	markdown := BuildMarkdownSummary(data)

	// Step 3: Generate files using FileGenerator
	fileGenerator := NewFileGenerator(rg)
	files, err := fileGenerator.GenerateAllFiles(ctx, data, markdown)
	if err != nil {
		return nil, fmt.Errorf("failed to generate files: %w", err)
	}

	// Step 4: Store files using StorageOrchestrator
	if err := storageOrchestrator.StoreAllFiles(ctx, files, data.GeneratedAt); err != nil {
		return nil, fmt.Errorf("failed to store files: %w", err)
	}

	if metrics != nil {
		metrics.SnapshotsGenerated.Inc()
		metrics.SnapshotDuration.Observe(time.Since(started).Seconds())
	}

	reportURL := "/files/" + files.FolderPath + "/index.html"
	logger.Info("Report snapshot generated", map[string]interface{}{
		"folder":   files.FolderPath,
		"duration": time.Since(started).String(),
	})

	return map[string]interface{}{
		"status":     "success",
		"message":    "Report generated successfully",
		"reportURL":  reportURL,
		"timestamp":  data.GeneratedAt.Format(time.RFC3339),
		"dataPoints": data.Series.Len(),
		"folderPath": files.FolderPath,
	}, nil
}
