package reports

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"rainscope/internal/charts"
	"rainscope/internal/config"
	"rainscope/internal/logger"
	"rainscope/internal/season"
	"rainscope/internal/timeseries"
)

// HTMLBuilder handles HTML generation with goldmark
type HTMLBuilder struct {
	templateLoader *TemplateLoader
	goldmark       goldmark.Markdown
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	// Configure goldmark with extensions
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(), // Allow raw HTML in markdown
		),
	)

	return &HTMLBuilder{
		templateLoader: NewTemplateLoader(),
		goldmark:       md,
	}
}

// TemplateData represents the data structure for the report page template
type TemplateData struct {
	Date        string
	GeneratedAt string
	Station     string
	Content     template.HTML
	CSSFilePath string
	Version     string

	// Chart placeholders
	SeriesChart      template.HTML
	ClimatologyChart template.HTML
	AnomalyChart     template.HTML
}

// ChartTemplateData represents chart data for template substitution
type ChartTemplateData struct {
	SeriesChart      template.HTML
	ClimatologyChart template.HTML
	AnomalyChart     template.HTML
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// LoadStaticCSS loads the static CSS content without template processing
func (h *HTMLBuilder) LoadStaticCSS() (string, error) {
	cssContent, err := h.templateLoader.LoadCSSStyles()
	if err != nil {
		return "", fmt.Errorf("failed to load CSS: %w", err)
	}
	return cssContent, nil
}

// GenerateChartData creates the embeddable chart snippets for a report
func (h *HTMLBuilder) GenerateChartData(series timeseries.Series, level timeseries.Level, clim []season.ClimatologyPoint, targetYear int) (*ChartTemplateData, error) {
	chartGen := charts.NewChartGenerator()

	snippets, err := chartGen.GenerateEChartsSnippets(series, level, clim, targetYear)
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart snippets: %w", err)
	}

	// Empty defaults keep missing charts from leaving raw placeholders behind
	chartData := &ChartTemplateData{
		SeriesChart:      template.HTML(""),
		ClimatologyChart: template.HTML(""),
		AnomalyChart:     template.HTML(""),
	}

	for _, snippet := range snippets {
		switch snippet.ID {
		case "chart-rainfall-trend":
			chartData.SeriesChart = template.HTML(snippet.HTML)
		case "chart-climatology":
			chartData.ClimatologyChart = template.HTML(snippet.HTML)
		case "chart-anomaly":
			chartData.AnomalyChart = template.HTML(snippet.HTML)
		}
	}

	return chartData, nil
}

// ProcessMarkdownWithPlaceholders converts markdown to HTML and substitutes
// the chart placeholders embedded in it
func (h *HTMLBuilder) ProcessMarkdownWithPlaceholders(markdownContent string, chartData *ChartTemplateData) (string, error) {
	htmlContent, err := h.ConvertMarkdownToHTML(markdownContent)
	if err != nil {
		return "", err
	}

	// The converted HTML still carries {{.SeriesChart}} style placeholders
	tmpl, err := template.New("content").Parse(htmlContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse content template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, chartData); err != nil {
		return "", fmt.Errorf("failed to execute content template: %w", err)
	}

	return buf.String(), nil
}

// BuildCompleteHTML creates a complete report page with template substitution
func (h *HTMLBuilder) BuildCompleteHTML(processedHTMLContent string, data *ReportData, chartData *ChartTemplateData) (string, error) {
	// Reports are served from their snapshot folder, so asset links stay
	// relative and resolve through the same storage backend
	templateData := TemplateData{
		Date:             data.GeneratedAt.Format("2006-01-02"),
		GeneratedAt:      data.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		Station:          stationLabel(data),
		Content:          template.HTML(processedHTMLContent),
		CSSFilePath:      "styles.css",
		Version:          config.GetVersion(),
		SeriesChart:      chartData.SeriesChart,
		ClimatologyChart: chartData.ClimatologyChart,
		AnomalyChart:     chartData.AnomalyChart,
	}

	finalHTML, err := h.executeTemplate(templateData)
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	logger.Debug("Complete HTML built", map[string]interface{}{"bytes": len(finalHTML)})
	return finalHTML, nil
}

// executeTemplate executes the report page template with the provided data
func (h *HTMLBuilder) executeTemplate(data TemplateData) (string, error) {
	htmlTemplate, err := h.templateLoader.LoadHTMLTemplate()
	if err != nil {
		return "", fmt.Errorf("failed to load HTML template: %w", err)
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"safeCSS": func(s string) template.CSS {
			return template.CSS(s)
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
