package charts

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"rainscope/internal/season"
)

// RenderClimatologyPNG renders the target year against the long-term daily average as a PNG image
func RenderClimatologyPNG(w io.Writer, clim []season.ClimatologyPoint, targetYear int) error {
	if len(clim) < 2 {
		return fmt.Errorf("need at least two climatology points, got %d", len(clim))
	}

	actualX := make([]time.Time, len(clim))
	actualY := make([]float64, len(clim))
	var avgX []time.Time
	var avgY []float64
	for i, p := range clim {
		actualX[i] = p.Date
		actualY[i] = p.Actual
		if p.LongTermAvg != nil {
			avgX = append(avgX, p.Date)
			avgY = append(avgY, *p.LongTermAvg)
		}
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("%d vs Long-Term Average", targetYear),
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
				Name: fmt.Sprintf("%d", targetYear),
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 69, G: 117, B: 180, A: 255}, // Blue
					StrokeWidth: 2,
				},
				XValues: actualX,
				YValues: actualY,
			},
		},
	}

	// Overlay the long-term average where a baseline exists
	if len(avgX) >= 2 {
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name: "Long-term average",
			Style: chart.Style{
				StrokeColor:     drawing.Color{R: 255, G: 107, B: 53, A: 255}, // Orange
				StrokeWidth:     2,
				StrokeDashArray: []float64{5, 5},
			},
			XValues: avgX,
			YValues: avgY,
		})
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render climatology chart: %w", err)
	}

	return nil
}
