package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"rainscope/internal/charts"
	"rainscope/internal/logger"
	"rainscope/internal/storage"
	"rainscope/internal/timeseries"
)

// FileGenerator handles generation of all snapshot files
type FileGenerator struct {
	reportGenerator *ReportGenerator
}

// GeneratedFiles contains all files generated for one snapshot
type GeneratedFiles struct {
	HTMLContent string
	JSONFiles   map[string][]byte
	AssetFiles  map[string][]byte // CSS, CSV, markdown, chart PNGs, explorer page
	FolderPath  string
}

// NewFileGenerator creates a new file generator
func NewFileGenerator(reportGenerator *ReportGenerator) *FileGenerator {
	return &FileGenerator{
		reportGenerator: reportGenerator,
	}
}

// GenerateAllFiles creates every snapshot artifact. Secondary artifacts
// degrade to warnings; only the report page itself is required.
func (fg *FileGenerator) GenerateAllFiles(ctx context.Context, data *ReportData, markdown string) (*GeneratedFiles, error) {
	files := &GeneratedFiles{
		JSONFiles:  make(map[string][]byte),
		AssetFiles: make(map[string][]byte),
	}
	files.FolderPath = storage.GenerateReportFolderPath(data.GeneratedAt)

	// 1. CSV export of the daily record
	if err := fg.generateCSV(data, files); err != nil {
		logger.Warn("Failed to generate CSV export", map[string]interface{}{"error": err.Error()})
	}

	// 2. JSON payloads for the series, summary, and climatology
	if err := fg.generateJSONFiles(data, files); err != nil {
		logger.Warn("Failed to generate JSON files", map[string]interface{}{"error": err.Error()})
	}

	// 3. Markdown summary as a standalone artifact
	files.AssetFiles["summary.md"] = []byte(markdown)

	// 4. Chart PNGs
	fg.generateChartPNGs(data, files)

	// 5. Interactive explorer page
	if err := fg.generateExplorer(data, files); err != nil {
		logger.Warn("Failed to generate explorer page", map[string]interface{}{"error": err.Error()})
	}

	// 6. Stylesheet
	if err := fg.generateCSS(files); err != nil {
		logger.Warn("Failed to load stylesheet", map[string]interface{}{"error": err.Error()})
	}

	// 7. Complete HTML report
	if err := fg.generateHTML(data, markdown, files); err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	return files, nil
}

// generateCSV writes the daily record in the service's export format
func (fg *FileGenerator) generateCSV(data *ReportData, files *GeneratedFiles) error {
	var buf bytes.Buffer
	if err := data.Series.WriteCSV(&buf); err != nil {
		return err
	}
	files.AssetFiles["rainfall.csv"] = buf.Bytes()
	logger.Debug("Generated CSV export", map[string]interface{}{"bytes": buf.Len()})
	return nil
}

// generateJSONFiles marshals the machine-readable snapshot payloads
func (fg *FileGenerator) generateJSONFiles(data *ReportData, files *GeneratedFiles) error {
	stats := data.Series.Stats()
	start, end, _ := data.Series.Bounds()

	seriesPayload := map[string]interface{}{
		"source": data.Source,
		"level":  timeseries.Daily.String(),
		"days":   data.Series.Len(),
		"points": data.Series.Points,
	}
	if out, err := json.MarshalIndent(seriesPayload, "", "  "); err == nil {
		files.JSONFiles["series.json"] = out
		logger.Debug("Generated series JSON", map[string]interface{}{"bytes": len(out)})
	}

	summaryPayload := map[string]interface{}{
		"source":      data.Source,
		"start":       timeseries.FormatDate(start),
		"end":         timeseries.FormatDate(end),
		"stats":       stats,
		"target_year": data.TargetYear,
		"withdrawal": map[string]interface{}{
			"search_start":     timeseries.FormatDate(data.Withdrawal.Query.SearchStart),
			"threshold_mm":     data.Withdrawal.Query.ThresholdMM,
			"consecutive_days": data.Withdrawal.Query.ConsecutiveDays,
			"found":            data.Withdrawal.Found,
		},
	}
	if data.Withdrawal.Found {
		summaryPayload["withdrawal"].(map[string]interface{})["date"] = timeseries.FormatDate(data.Withdrawal.Date)
	}
	if out, err := json.MarshalIndent(summaryPayload, "", "  "); err == nil {
		files.JSONFiles["summary.json"] = out
		logger.Debug("Generated summary JSON", map[string]interface{}{"bytes": len(out)})
	}

	if len(data.Climatology) > 0 {
		if out, err := json.MarshalIndent(data.Climatology, "", "  "); err == nil {
			files.JSONFiles["climatology.json"] = out
			logger.Debug("Generated climatology JSON", map[string]interface{}{"bytes": len(out)})
		}
	}

	return nil
}

// generateChartPNGs renders the static chart images. A chart that cannot
// render is skipped, not fatal.
func (fg *FileGenerator) generateChartPNGs(data *ReportData, files *GeneratedFiles) {
	type chartRender struct {
		name   string
		render func(w io.Writer) error
	}

	renders := []chartRender{
		{"rainfall_trend.png", func(w io.Writer) error {
			return charts.RenderSeriesPNG(w, data.Aggregated, data.Level)
		}},
	}
	if len(data.Climatology) > 0 {
		renders = append(renders,
			chartRender{"climatology.png", func(w io.Writer) error {
				return charts.RenderClimatologyPNG(w, data.Climatology, data.TargetYear)
			}},
			chartRender{"anomaly.png", func(w io.Writer) error {
				return charts.RenderAnomalyPNG(w, data.Climatology, data.TargetYear)
			}},
		)
	}

	for _, r := range renders {
		var buf bytes.Buffer
		if err := r.render(&buf); err != nil {
			logger.Warn("Failed to render chart PNG", map[string]interface{}{"chart": r.name, "error": err.Error()})
			continue
		}
		files.AssetFiles[r.name] = buf.Bytes()
		logger.Debug("Rendered chart PNG", map[string]interface{}{"chart": r.name, "bytes": buf.Len()})
	}
}

// generateExplorer builds the standalone interactive explorer page
func (fg *FileGenerator) generateExplorer(data *ReportData, files *GeneratedFiles) error {
	html, err := BuildExplorerHTML(data.Series, stationLabel(data))
	if err != nil {
		return err
	}
	files.AssetFiles["explorer.html"] = []byte(html)
	logger.Debug("Generated explorer page", map[string]interface{}{"bytes": len(html)})
	return nil
}

// generateCSS copies the shared stylesheet into the snapshot folder
func (fg *FileGenerator) generateCSS(files *GeneratedFiles) error {
	css, err := fg.reportGenerator.GenerateStaticCSS()
	if err != nil {
		return err
	}
	files.AssetFiles["styles.css"] = []byte(css)
	return nil
}

// generateHTML builds the report page itself
func (fg *FileGenerator) generateHTML(data *ReportData, markdown string, files *GeneratedFiles) error {
	html, err := fg.reportGenerator.GenerateHTML(data, markdown)
	if err != nil {
		return err
	}
	files.HTMLContent = html
	logger.Debug("Generated HTML report", map[string]interface{}{"bytes": len(html)})
	return nil
}
