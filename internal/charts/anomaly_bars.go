package charts

import (
	"encoding/json"
	"fmt"

	"rainscope/internal/season"
)

// generateAnomalySnippet builds an ECharts bar chart of daily rainfall anomalies.
// Surplus days render blue, deficit days red; days without a baseline render as gaps.
func (cg *ChartGenerator) generateAnomalySnippet(clim []season.ClimatologyPoint, targetYear int) (ChartSnippet, error) {
	id := "chart-anomaly"
	title := fmt.Sprintf("%d Rainfall Anomaly", targetYear)

	labels := make([]string, 0, len(clim))
	values := make([]interface{}, 0, len(clim))
	for _, p := range clim {
		labels = append(labels, p.Date.Format("02 Jan"))
		if p.Anomaly != nil {
			values = append(values, *p.Anomaly)
		} else {
			values = append(values, nil)
		}
	}

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{"trigger": "axis", "axisPointer": map[string]interface{}{"type": "shadow"}},
		"grid":    map[string]interface{}{"left": "8%", "right": "4%", "bottom": "12%", "containLabel": true},
		"xAxis": map[string]interface{}{
			"type":      "category",
			"data":      labels,
			"axisLabel": map[string]interface{}{"rotate": 45},
		},
		"yAxis": map[string]interface{}{"type": "value", "name": "Anomaly (mm)"},
		"visualMap": map[string]interface{}{
			"show":      false,
			"dimension": 1,
			"pieces": []interface{}{
				map[string]interface{}{"lt": 0, "color": "#d73027"},
				map[string]interface{}{"gte": 0, "color": "#4575b4"},
			},
		},
		"series": []interface{}{
			map[string]interface{}{
				"name": "Anomaly",
				"type": "bar",
				"data": values,
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
