package charts

import (
	"time"

	"rainscope/internal/season"
	"rainscope/internal/timeseries"
)

// ChartGenerator handles creation of chart snippets and images
type ChartGenerator struct{}

// NewChartGenerator creates a new chart generator
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// GenerateEChartsSnippets creates all embeddable chart snippets for the dashboard
func (cg *ChartGenerator) GenerateEChartsSnippets(series timeseries.Series, level timeseries.Level, clim []season.ClimatologyPoint, targetYear int) ([]ChartSnippet, error) {
	var snippets []ChartSnippet

	// Generate rainfall trend chart
	if trendChart, err := cg.generateRainfallTrendSnippet(series, level); err == nil {
		snippets = append(snippets, trendChart)
	}

	// Generate climatology and anomaly charts for the target year
	if len(clim) > 0 {
		if climChart, err := cg.generateClimatologySnippet(clim, targetYear); err == nil {
			snippets = append(snippets, climChart)
		}
		if anomalyChart, err := cg.generateAnomalySnippet(clim, targetYear); err == nil {
			snippets = append(snippets, anomalyChart)
		}
	}

	return snippets, nil
}

// axisLabel formats a bucket start date for a category axis at the given level
func axisLabel(d time.Time, level timeseries.Level) string {
	switch level {
	case timeseries.Monthly:
		return d.Format("Jan 2006")
	case timeseries.Yearly:
		return d.Format("2006")
	default:
		return d.Format("02 Jan 2006")
	}
}
