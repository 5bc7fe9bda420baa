package server

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"rainscope/internal/charts"
	"rainscope/internal/config"
	"rainscope/internal/dataset"
	"rainscope/internal/logger"
	"rainscope/internal/reports"
	"rainscope/internal/season"
	"rainscope/internal/timeseries"
)

// LevelLink is one entry in the dashboard's aggregation level switcher
type LevelLink struct {
	Name   string
	Title  string
	URL    string
	Active bool
}

// SeriesRow is one line of the dashboard's aggregated data table
type SeriesRow struct {
	Date string
	MM   string
}

// DashboardData feeds the dashboard page template
type DashboardData struct {
	Version    string
	Station    string
	Window     string
	Days       int
	TotalMM    string
	MeanMM     string
	TargetYear int

	PeakLine       string
	WithdrawalLine string

	Level  string
	Levels []LevelLink
	Error  string

	SeriesChart      template.HTML
	ClimatologyChart template.HTML
	AnomalyChart     template.HTML

	Rows        []SeriesRow
	SummaryHTML template.HTML
}

// buildDashboardData computes everything the dashboard shows from the request
// parameters. Failures downgrade to the error banner; the page always renders.
func (s *Server) buildDashboardData(r *http.Request) DashboardData {
	level, levelErr := parseLevelParam(r)

	data := DashboardData{
		Version: config.GetVersion(),
		Station: "rainfall station",
		Window:  "no data loaded",
		Level:   level.String(),
		Levels:  levelLinks(r, level),
	}
	if levelErr != nil {
		data.Error = levelErr.Error()
	}

	ds, err := s.Loader.Load(r.Context(), s.Config.DataURL)
	if err != nil {
		logger.Error("Dashboard could not load rainfall data", err, map[string]interface{}{"source": s.Config.DataURL})
		data.Error = "Rainfall data is unavailable: " + err.Error()
		return data
	}
	data.Station = stationLabel(ds)

	// A bad range keeps the page alive: report it and show the full record
	view := ds.Series
	if win, err := resolveWindow(r, ds.Series); err != nil {
		if data.Error == "" {
			data.Error = err.Error()
		}
	} else {
		view = win.Series
	}

	s.fillSummary(&data, view)
	withdrawal, year := s.fillWithdrawal(r, &data, ds.Series)

	agg := view.Aggregate(level)
	clim := season.Climatology(ds.Series, year)
	s.fillCharts(&data, agg, level, clim, year)
	data.Rows = seriesRows(agg)
	s.fillSeasonSummary(&data, &reports.ReportData{
		Source:      ds.Source,
		Latitude:    ds.Latitude,
		Longitude:   ds.Longitude,
		Series:      view,
		Level:       level,
		Aggregated:  agg,
		TargetYear:  year,
		Climatology: clim,
		Withdrawal:  withdrawal,
		GeneratedAt: time.Now().UTC(),
	})
	return data
}

// fillSummary fills the stat cards and the peak headline from the visible window
func (s *Server) fillSummary(data *DashboardData, view timeseries.Series) {
	stats := view.Stats()
	data.Days = stats.Days
	data.TotalMM = mm(stats.Total)
	data.MeanMM = mm(stats.Mean)

	if start, end, ok := view.Bounds(); ok {
		data.Window = fmt.Sprintf("%s to %s", timeseries.FormatDate(start), timeseries.FormatDate(end))
	} else {
		data.Window = "no observations in the selected window"
	}

	if stats.Peak != nil {
		data.PeakLine = fmt.Sprintf("Peak day: %s mm on %s.", mm(stats.Peak.Rainfall), timeseries.FormatDate(stats.Peak.Date))
	} else {
		data.PeakLine = "No peak day: the selected window has no observations."
	}
}

// fillWithdrawal runs the dry-spell search with the request's parameters and
// writes the outcome line. A query that does not parse degrades the line and
// the season summary falls back to the configured search. Returns the search
// outcome and the resolved target year.
func (s *Server) fillWithdrawal(r *http.Request, data *DashboardData, full timeseries.Series) (reports.WithdrawalSummary, int) {
	q, year, err := s.withdrawalQuery(r, full)
	data.TargetYear = year
	if err != nil {
		data.WithdrawalLine = "Withdrawal search skipped: " + err.Error()
		return runWithdrawal(full, s.defaultWithdrawalQuery(year)), year
	}

	withdrawal, found, err := season.FindWithdrawal(full, q)
	switch {
	case err != nil:
		data.WithdrawalLine = "Withdrawal search failed: " + err.Error()
		return reports.WithdrawalSummary{Query: q}, year
	case found:
		data.WithdrawalLine = fmt.Sprintf(
			"Monsoon withdrawal %d: the first %d-day spell with at most %s mm of daily rain begins on %s.",
			year, q.ConsecutiveDays, mm(q.ThresholdMM), timeseries.FormatDate(withdrawal))
	default:
		data.WithdrawalLine = fmt.Sprintf(
			"No %d-day dry spell found from %s: the %d season had not withdrawn within the observed record.",
			q.ConsecutiveDays, timeseries.FormatDate(q.SearchStart), year)
	}
	return reports.WithdrawalSummary{Query: q, Date: withdrawal, Found: found}, year
}

// runWithdrawal packages a search outcome the way the snapshot pipeline does
func runWithdrawal(full timeseries.Series, q season.Query) reports.WithdrawalSummary {
	withdrawal, found, err := season.FindWithdrawal(full, q)
	if err != nil {
		return reports.WithdrawalSummary{Query: q}
	}
	return reports.WithdrawalSummary{Query: q, Date: withdrawal, Found: found}
}

// fillCharts embeds the interactive chart snippets for the current view
func (s *Server) fillCharts(data *DashboardData, agg timeseries.Series, level timeseries.Level, clim []season.ClimatologyPoint, year int) {
	snippets, err := charts.NewChartGenerator().GenerateEChartsSnippets(agg, level, clim, year)
	if err != nil {
		logger.Warn("Dashboard chart generation failed", map[string]interface{}{"error": err.Error()})
		return
	}

	for _, snippet := range snippets {
		switch snippet.ID {
		case "chart-rainfall-trend":
			data.SeriesChart = template.HTML(snippet.HTML)
		case "chart-climatology":
			data.ClimatologyChart = template.HTML(snippet.HTML)
		case "chart-anomaly":
			data.AnomalyChart = template.HTML(snippet.HTML)
		}
	}
}

// fillSeasonSummary renders the snapshot narrative for the current view, so
// the page shows the same text a stored report would carry. A window with no
// observations has nothing to narrate and leaves the section out.
func (s *Server) fillSeasonSummary(data *DashboardData, report *reports.ReportData) {
	if report.Series.Empty() {
		return
	}
	rendered, err := s.ReportGenerator.GenerateSummaryHTML(report)
	if err != nil {
		logger.Warn("Dashboard summary rendering failed", map[string]interface{}{"error": err.Error()})
		return
	}
	data.SummaryHTML = template.HTML(rendered)
}

// seriesRows formats the aggregated series for the data table
func seriesRows(agg timeseries.Series) []SeriesRow {
	rows := make([]SeriesRow, 0, agg.Len())
	for _, p := range agg.Points {
		rows = append(rows, SeriesRow{Date: timeseries.FormatDate(p.Date), MM: mm(p.Rainfall)})
	}
	return rows
}

// renderDashboard executes the dashboard page template, falling back to a
// bare page when the template files are missing
func (s *Server) renderDashboard(w http.ResponseWriter, data DashboardData) {
	pageTemplate, err := reports.NewTemplateLoader().LoadInitialPage()
	if err != nil {
		logger.Error("Failed to load dashboard template", err)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Rainscope</h1><p>Dashboard unavailable. The API endpoints under /api are still served.</p></body></html>")
		return
	}

	tmpl, err := template.New("dashboard").Parse(pageTemplate)
	if err != nil {
		logger.Error("Failed to parse dashboard template", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if err := tmpl.Execute(w, data); err != nil {
		logger.Error("Failed to render dashboard", err)
	}
}

// levelLinks builds the aggregation switcher, carrying the rest of the
// current query across level changes
func levelLinks(r *http.Request, active timeseries.Level) []LevelLink {
	levels := []timeseries.Level{timeseries.Daily, timeseries.Weekly, timeseries.Monthly, timeseries.Yearly}
	links := make([]LevelLink, 0, len(levels))
	for _, l := range levels {
		q := r.URL.Query()
		q.Set("level", l.String())
		links = append(links, LevelLink{
			Name:   l.String(),
			Title:  l.Title(),
			URL:    "/?" + q.Encode(),
			Active: l == active,
		})
	}
	return links
}

// stationLabel names the station for page headers, preferring coordinates
// from the source file over its name
func stationLabel(ds *dataset.Dataset) string {
	if ds.Latitude != nil && ds.Longitude != nil {
		return fmt.Sprintf("%.3f, %.3f", *ds.Latitude, *ds.Longitude)
	}
	if base := filepath.Base(ds.Source); base != "." && base != "/" && base != "" {
		return base
	}
	return "rainfall station"
}

// mm renders a rainfall amount with one decimal place
func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
