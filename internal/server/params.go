package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"rainscope/internal/season"
	"rainscope/internal/timeseries"
)

// paramDateLayout is the date layout accepted in query strings. URLs use ISO
// dates even though station CSVs are day-month-year.
const paramDateLayout = "2006-01-02"

// window is a resolved view of the series: the points between Start and End,
// both taken from the request or defaulted to the full record.
type window struct {
	Series timeseries.Series
	Start  time.Time
	End    time.Time
}

// resolveWindow applies the start and end query parameters to the full
// series. Absent parameters default to the record's bounds.
func resolveWindow(r *http.Request, full timeseries.Series) (window, error) {
	defStart, defEnd, _ := full.Bounds()

	start, err := parseDateParam(r, "start", defStart)
	if err != nil {
		return window{}, err
	}
	end, err := parseDateParam(r, "end", defEnd)
	if err != nil {
		return window{}, err
	}

	sub, err := full.Range(start, end)
	if err != nil {
		return window{}, err
	}
	return window{Series: sub, Start: start, End: end}, nil
}

// withdrawalQuery resolves the year, threshold, days, and from parameters
// into a dry-spell query, defaulting to the configured search within the
// latest observed year. The returned year is valid even when parsing fails.
func (s *Server) withdrawalQuery(r *http.Request, full timeseries.Series) (season.Query, int, error) {
	year, err := parseIntParam(r, "year", latestYear(full))
	if err != nil {
		return season.Query{}, latestYear(full), err
	}
	def := s.defaultWithdrawalQuery(year)

	threshold, err := parseFloatParam(r, "threshold", def.ThresholdMM)
	if err != nil {
		return season.Query{}, year, err
	}
	days, err := parseIntParam(r, "days", def.ConsecutiveDays)
	if err != nil {
		return season.Query{}, year, err
	}
	from, err := parseDateParam(r, "from", def.SearchStart)
	if err != nil {
		return season.Query{}, year, err
	}

	return season.Query{
		SearchStart:     from,
		ThresholdMM:     threshold,
		ConsecutiveDays: days,
	}, year, nil
}

// defaultWithdrawalQuery is the configured dry-spell search for a year
func (s *Server) defaultWithdrawalQuery(year int) season.Query {
	return season.Query{
		SearchStart:     s.Config.WithdrawalSearchDate(year),
		ThresholdMM:     s.Config.DryThresholdMM,
		ConsecutiveDays: s.Config.DrySpellDays,
	}
}

// latestYear returns the most recent year with observations, or the current
// year for an empty record
func latestYear(s timeseries.Series) int {
	if years := season.Years(s); len(years) > 0 {
		return years[len(years)-1]
	}
	return time.Now().UTC().Year()
}

// parseDateParam reads an ISO date query parameter, returning fallback when
// the parameter is absent
func parseDateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(paramDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, want YYYY-MM-DD", name, raw)
	}
	return timeseries.DateOnly(t), nil
}

// parseLevelParam reads the aggregation level query parameter, defaulting to daily
func parseLevelParam(r *http.Request) (timeseries.Level, error) {
	raw := r.URL.Query().Get("level")
	if raw == "" {
		return timeseries.Daily, nil
	}
	level, err := timeseries.ParseLevel(raw)
	if err != nil {
		return timeseries.Daily, fmt.Errorf("invalid level %q, want daily, weekly, monthly or yearly", raw)
	}
	return level, nil
}

func parseIntParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q, want an integer", name, raw)
	}
	return v, nil
}

func parseFloatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q, want a number", name, raw)
	}
	return v, nil
}
