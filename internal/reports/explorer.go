package reports

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"rainscope/internal/timeseries"
)

// BuildExplorerHTML renders the standalone explorer page: the full daily
// record as a zoomable ECharts line with a range slider. Snapshots store it
// next to index.html so the monthly overview keeps a daily drill-down.
func BuildExplorerHTML(series timeseries.Series, station string) (string, error) {
	if series.Empty() {
		return "", fmt.Errorf("no data points to render")
	}
	start, end, _ := series.Bounds()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeWesteros,
			Width:     "1200px",
			Height:    "600px",
			PageTitle: "Rainfall Explorer",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Daily Rainfall at %s", station),
			Subtitle: fmt.Sprintf("%s to %s, %d observed days", timeseries.FormatDate(start), timeseries.FormatDate(end), series.Len()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Date",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Rainfall (mm)",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
	)

	labels := make([]string, series.Len())
	values := make([]opts.LineData, series.Len())
	for i, p := range series.Points {
		labels[i] = p.Date.Format("02 Jan 2006")
		values[i] = opts.LineData{Value: p.Rainfall}
	}

	line.SetXAxis(labels).
		AddSeries("Rainfall (mm)", values)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
