package charts

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"rainscope/internal/season"
)

// RenderAnomalyPNG renders daily rainfall anomalies for the target year as a PNG image.
// Days without a long-term baseline are left out.
func RenderAnomalyPNG(w io.Writer, clim []season.ClimatologyPoint, targetYear int) error {
	var xValues []time.Time
	var yValues []float64
	for _, p := range clim {
		if p.Anomaly != nil {
			xValues = append(xValues, p.Date)
			yValues = append(yValues, *p.Anomaly)
		}
	}

	if len(xValues) < 2 {
		return fmt.Errorf("need at least two anomaly points, got %d", len(xValues))
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("%d Rainfall Anomaly", targetYear),
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
			ValueFormatter: chart.TimeValueFormatterWithFormat("02 Jan"),
		},
		YAxis: chart.YAxis{
			Name: "Anomaly (mm)",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Anomaly",
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 215, G: 48, B: 39, A: 255}, // Red
					StrokeWidth: 2,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	// Zero baseline separates surplus from deficit days
	graph.Series = append(graph.Series, chart.ContinuousSeries{
		Name: "Baseline",
		Style: chart.Style{
			StrokeColor:     drawing.ColorBlack,
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
		XValues: []float64{chart.TimeToFloat64(xValues[0]), chart.TimeToFloat64(xValues[len(xValues)-1])},
		YValues: []float64{0, 0},
	})

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render anomaly chart: %w", err)
	}

	return nil
}
