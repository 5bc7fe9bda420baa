package charts

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"rainscope/internal/timeseries"
)

// RenderSeriesPNG renders rainfall totals at the given level as a PNG image.
// Daily series render as a line chart, coarser levels as bars.
func RenderSeriesPNG(w io.Writer, series timeseries.Series, level timeseries.Level) error {
	if series.Empty() {
		return fmt.Errorf("no data points to render")
	}

	if level == timeseries.Daily {
		return renderDailyLinePNG(w, series)
	}
	return renderBucketBarsPNG(w, series, level)
}

// renderDailyLinePNG draws the daily series as a time series line chart
func renderDailyLinePNG(w io.Writer, series timeseries.Series) error {
	if series.Len() < 2 {
		return fmt.Errorf("need at least two points for a line chart, got %d", series.Len())
	}

	xValues := make([]time.Time, series.Len())
	yValues := make([]float64, series.Len())
	for i, p := range series.Points {
		xValues[i] = p.Date
		yValues[i] = p.Rainfall
	}

	graph := chart.Chart{
		Title: "Daily Rainfall",
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   70,
				Right:  20,
				Bottom: 60,
			},
		},
		Height: 350,
		Width:  900,
		XAxis: chart.XAxis{
			Name: "Date",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 9,
			},
			ValueFormatter: chart.TimeValueFormatterWithFormat("02 Jan 2006"),
		},
		YAxis: chart.YAxis{
			Name: "Rainfall (mm)",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Rainfall",
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 69, G: 117, B: 180, A: 255}, // Blue
					StrokeWidth: 2,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render daily rainfall chart: %w", err)
	}

	return nil
}

// renderBucketBarsPNG draws weekly, monthly or yearly totals as a bar chart
func renderBucketBarsPNG(w io.Writer, series timeseries.Series, level timeseries.Level) error {
	bars := make([]chart.Value, 0, series.Len())
	for _, p := range series.Points {
		bars = append(bars, chart.Value{
			Value: p.Rainfall,
			Label: axisLabel(p.Date, level),
			Style: chart.Style{
				FillColor: drawing.Color{R: 69, G: 117, B: 180, A: 255}, // Blue
			},
		})
	}

	// Fit bars into the canvas regardless of bucket count
	barWidth := 600 / len(bars)
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("%s Rainfall", level.Title()),
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   60,
				Right:  20,
				Bottom: 60,
			},
		},
		Height:   400,
		Width:    900,
		BarWidth: barWidth,
		Bars:     bars,
		XAxis: chart.Style{
			FontSize: 10,
		},
		YAxis: chart.YAxis{
			Name: "Rainfall (mm)",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render %s rainfall chart: %w", level, err)
	}

	return nil
}
