package reports

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"rainscope/internal/season"
	"rainscope/internal/timeseries"
)

// BuildMarkdownSummary renders the report text for a snapshot. The output is
// GFM markdown carrying {{.SeriesChart}}, {{.ClimatologyChart}} and
// {{.AnomalyChart}} placeholders, which the HTML builder substitutes after
// conversion. The same inputs always produce the same text.
func BuildMarkdownSummary(data *ReportData) string {
	var b strings.Builder

	stats := data.Series.Stats()
	start, end, _ := data.Series.Bounds()

	fmt.Fprintf(&b, "# Rainfall Report\n\n")
	fmt.Fprintf(&b, "Station %s, generated %s.\n\n", stationLabel(data), data.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Observation window: %s to %s, %d observed days.\n\n",
		timeseries.FormatDate(start), timeseries.FormatDate(end), stats.Days)

	fmt.Fprintf(&b, "## %s Rainfall\n\n", data.Level.Title())
	b.WriteString("{{.SeriesChart}}\n\n")
	fmt.Fprintf(&b, "- Total rainfall: %s mm\n", formatMM(stats.Total))
	fmt.Fprintf(&b, "- Mean per observed day: %s mm\n", formatMM(stats.Mean))
	if stats.Peak != nil {
		fmt.Fprintf(&b, "- Peak day: %s mm on %s\n", formatMM(stats.Peak.Rainfall), timeseries.FormatDate(stats.Peak.Date))
	}
	monthly := data.Series.Aggregate(timeseries.Monthly)
	if wettest, driest, ok := monthExtremes(monthly); ok {
		fmt.Fprintf(&b, "- Wettest month: %s with %s mm\n", wettest.Date.Format("January 2006"), formatMM(wettest.Rainfall))
		if monthly.Len() > 1 {
			fmt.Fprintf(&b, "- Driest month: %s with %s mm\n", driest.Date.Format("January 2006"), formatMM(driest.Rainfall))
		}
	}
	b.WriteString("\n")

	if len(data.Climatology) > 0 {
		fmt.Fprintf(&b, "## %d vs Long-Term Average\n\n", data.TargetYear)
		b.WriteString("{{.ClimatologyChart}}\n\n")
		withBaseline := 0
		for _, p := range data.Climatology {
			if p.LongTermAvg != nil {
				withBaseline++
			}
		}
		fmt.Fprintf(&b, "- Days compared: %d, of which %d have a long-term baseline\n", len(data.Climatology), withBaseline)
		if surplus, deficit, ok := anomalyExtremes(data.Climatology); ok {
			fmt.Fprintf(&b, "- Largest surplus: %+.1f mm on %s\n", *surplus.Anomaly, timeseries.FormatDate(surplus.Date))
			fmt.Fprintf(&b, "- Largest deficit: %+.1f mm on %s\n", *deficit.Anomaly, timeseries.FormatDate(deficit.Date))
		}
		b.WriteString("\n")

		fmt.Fprintf(&b, "## %d Daily Anomaly\n\n", data.TargetYear)
		b.WriteString("{{.AnomalyChart}}\n\n")
		b.WriteString("Positive bars mark days wetter than the long-term mean for that calendar day, negative bars mark drier days.\n\n")
	}

	b.WriteString("## Monsoon Withdrawal\n\n")
	q := data.Withdrawal.Query
	if data.Withdrawal.Found {
		fmt.Fprintf(&b, "The first %d-day spell with at most %s mm of daily rain, searched from %s, begins on **%s**. That day is taken as the %d monsoon withdrawal date.\n",
			q.ConsecutiveDays, formatMM(q.ThresholdMM), timeseries.FormatDate(q.SearchStart),
			timeseries.FormatDate(data.Withdrawal.Date), data.TargetYear)
	} else {
		fmt.Fprintf(&b, "No %d-day spell with at most %s mm of daily rain was found after %s. The %d season had not withdrawn within the observed record.\n",
			q.ConsecutiveDays, formatMM(q.ThresholdMM), timeseries.FormatDate(q.SearchStart), data.TargetYear)
	}

	return b.String()
}

// stationLabel names the station for titles and the report header, preferring
// coordinates from the source file over its name
func stationLabel(data *ReportData) string {
	if data.Latitude != nil && data.Longitude != nil {
		return fmt.Sprintf("%.3f, %.3f", *data.Latitude, *data.Longitude)
	}
	if base := filepath.Base(data.Source); base != "." && base != "/" && base != "" {
		return base
	}
	return "rainfall station"
}

// formatMM renders a rainfall amount with one decimal place
func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// monthExtremes picks the wettest and driest monthly buckets; ok is false
// when no month has data
func monthExtremes(monthly timeseries.Series) (wettest, driest timeseries.Point, ok bool) {
	if monthly.Empty() {
		return timeseries.Point{}, timeseries.Point{}, false
	}
	wettest, driest = monthly.Points[0], monthly.Points[0]
	for _, p := range monthly.Points[1:] {
		if p.Rainfall > wettest.Rainfall {
			wettest = p
		}
		if p.Rainfall < driest.Rainfall {
			driest = p
		}
	}
	return wettest, driest, true
}

// anomalyExtremes picks the largest positive and negative anomalies; ok is
// false when no day has a baseline
func anomalyExtremes(clim []season.ClimatologyPoint) (surplus, deficit season.ClimatologyPoint, ok bool) {
	for _, p := range clim {
		if p.Anomaly == nil {
			continue
		}
		if !ok {
			surplus, deficit, ok = p, p, true
			continue
		}
		if *p.Anomaly > *surplus.Anomaly {
			surplus = p
		}
		if *p.Anomaly < *deficit.Anomaly {
			deficit = p
		}
	}
	return surplus, deficit, ok
}
