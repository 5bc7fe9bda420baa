package charts

import (
	"encoding/json"
	"fmt"

	"rainscope/internal/season"
)

// generateClimatologySnippet builds an ECharts line chart comparing the target year
// against the long-term daily average. Days without an average render as gaps.
func (cg *ChartGenerator) generateClimatologySnippet(clim []season.ClimatologyPoint, targetYear int) (ChartSnippet, error) {
	id := "chart-climatology"
	title := fmt.Sprintf("%d vs Long-Term Average", targetYear)

	labels := make([]string, 0, len(clim))
	actual := make([]float64, 0, len(clim))
	average := make([]interface{}, 0, len(clim))
	for _, p := range clim {
		labels = append(labels, p.Date.Format("02 Jan"))
		actual = append(actual, p.Actual)
		if p.LongTermAvg != nil {
			average = append(average, *p.LongTermAvg)
		} else {
			average = append(average, nil)
		}
	}

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{
			"trigger":     "axis",
			"axisPointer": map[string]interface{}{"type": "cross"},
		},
		"grid": map[string]interface{}{"left": "8%", "right": "4%", "bottom": "15%", "containLabel": true},
		"xAxis": map[string]interface{}{
			"type":      "category",
			"data":      labels,
			"axisLabel": map[string]interface{}{"rotate": 45},
		},
		"yAxis": map[string]interface{}{"type": "value", "name": "Rainfall (mm)"},
		"series": []interface{}{
			map[string]interface{}{
				"name":       fmt.Sprintf("%d", targetYear),
				"type":       "line",
				"showSymbol": false,
				"lineStyle":  map[string]interface{}{"width": 2, "color": "#4575b4"},
				"itemStyle":  map[string]interface{}{"color": "#4575b4"},
				"data":       actual,
			},
			map[string]interface{}{
				"name":       "Long-term average",
				"type":       "line",
				"showSymbol": false,
				"lineStyle":  map[string]interface{}{"width": 2, "color": "#ff6b35", "type": "dashed"},
				"itemStyle":  map[string]interface{}{"color": "#ff6b35"},
				"data":       average,
			},
		},
		"legend": map[string]interface{}{
			"data":   []string{fmt.Sprintf("%d", targetYear), "Long-term average"},
			"bottom": 0,
		},
		"color": []string{"#4575b4", "#ff6b35"},
	}

	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, err
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:420px;\"></div>", id)
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
