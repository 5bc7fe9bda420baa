package server

import (
	"bytes"
	"fmt"
	"net/http"

	"rainscope/internal/charts"
	"rainscope/internal/logger"
	"rainscope/internal/season"
	"rainscope/internal/timeseries"
)

// HandleSeries returns the aggregated rainfall series for a date window as JSON
func (s *Server) HandleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	level, err := parseLevelParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	win, err := resolveWindow(r, ds.Series)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	agg := win.Series.Aggregate(level)
	points := agg.Points
	if points == nil {
		points = []timeseries.Point{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"source": ds.Source,
		"level":  level.String(),
		"start":  timeseries.FormatDate(win.Start),
		"end":    timeseries.FormatDate(win.End),
		"points": points,
		"stats":  agg.Stats(),
	})
}

// HandleSummary returns summary statistics and station metadata as JSON
func (s *Server) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	win, err := resolveWindow(r, ds.Series)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"source":    ds.Source,
		"station":   stationLabel(ds),
		"latitude":  ds.Latitude,
		"longitude": ds.Longitude,
		"start":     timeseries.FormatDate(win.Start),
		"end":       timeseries.FormatDate(win.End),
		"stats":     win.Series.Stats(),
	})
}

// HandleWithdrawal runs the dry-spell withdrawal search and returns the
// outcome as JSON. A season with no qualifying dry spell is found=false,
// not an error.
func (s *Server) HandleWithdrawal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	q, _, err := s.withdrawalQuery(r, ds.Series)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	withdrawal, found, err := season.FindWithdrawal(ds.Series, q)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	resp := map[string]interface{}{
		"found":            found,
		"search_start":     timeseries.FormatDate(q.SearchStart),
		"threshold_mm":     q.ThresholdMM,
		"consecutive_days": q.ConsecutiveDays,
	}
	if found {
		resp["date"] = timeseries.FormatDate(withdrawal)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleClimatology returns the target year against its long-term per-day
// average as JSON. Days without a baseline carry null values.
func (s *Server) HandleClimatology(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	year, err := parseIntParam(r, "year", latestYear(ds.Series))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows := season.Climatology(ds.Series, year)
	if rows == nil {
		rows = []season.ClimatologyPoint{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year": year,
		"days": len(rows),
		"rows": rows,
	})
}

// HandleExportCSV streams the aggregated series as a CSV attachment
func (s *Server) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	level, err := parseLevelParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	win, err := resolveWindow(r, ds.Series)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("rainfall_%s.csv", level)))
	if err := win.Series.Aggregate(level).WriteCSV(w); err != nil {
		logger.Error("Failed to write CSV export", err)
	}
}

// HandleSeriesPNG renders the aggregated series chart as a PNG image
func (s *Server) HandleSeriesPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	level, err := parseLevelParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	win, err := resolveWindow(r, ds.Series)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Render to a buffer first so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := charts.RenderSeriesPNG(&buf, win.Series.Aggregate(level), level); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// HandleClimatologyPNG renders the climatology overlay chart as a PNG image
func (s *Server) HandleClimatologyPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	year, err := parseIntParam(r, "year", latestYear(ds.Series))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderClimatologyPNG(&buf, season.Climatology(ds.Series, year), year); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// HandleAnomalyPNG renders the daily anomaly chart as a PNG image
func (s *Server) HandleAnomalyPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	year, err := parseIntParam(r, "year", latestYear(ds.Series))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderAnomalyPNG(&buf, season.Climatology(ds.Series, year), year); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}
