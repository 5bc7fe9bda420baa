package charts

import (
	"encoding/json"
	"fmt"

	"rainscope/internal/timeseries"
)

// generateRainfallTrendSnippet builds an ECharts bar chart for rainfall totals at the given level
func (cg *ChartGenerator) generateRainfallTrendSnippet(series timeseries.Series, level timeseries.Level) (ChartSnippet, error) {
	id := "chart-rainfall-trend"
	title := fmt.Sprintf("%s Rainfall", level.Title())

	labels := make([]string, 0, series.Len())
	values := make([]float64, 0, series.Len())
	for _, p := range series.Points {
		labels = append(labels, axisLabel(p.Date, level))
		values = append(values, p.Rainfall)
	}

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{"trigger": "axis", "axisPointer": map[string]interface{}{"type": "shadow"}},
		"grid":    map[string]interface{}{"left": "8%", "right": "4%", "bottom": "12%", "containLabel": true},
		"xAxis": map[string]interface{}{
			"type":      "category",
			"data":      labels,
			"axisLabel": map[string]interface{}{"rotate": 45},
		},
		"yAxis": map[string]interface{}{"type": "value", "name": "Rainfall (mm)"},
		"series": []interface{}{
			map[string]interface{}{
				"name":      "Rainfall",
				"type":      "bar",
				"data":      values,
				"barWidth":  "60%",
				"itemStyle": map[string]interface{}{"color": "#4575b4"},
			},
		},
	}

	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, err
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:360px;\"></div>", id)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`, id, string(optJSON))

	// Create complete HTML snippet with div and script
	completeHTML := fmt.Sprintf(`<script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>
<div class="chart-container">
	<h3>%s</h3>
	%s
</div>
%s`, title, div, script)

	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: completeHTML}, nil
}
