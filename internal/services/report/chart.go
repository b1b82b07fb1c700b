package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/gmorrison/foliowatch/internal/models"
)

const maxChartBars = 15

// renderRankingChart renders the ranked models as a PNG bar chart of trailing
// 12-month returns, best first.
func renderRankingChart(analysis *models.ModelAnalysis) ([]byte, error) {
	ranked := analysis.TopPerformers
	if len(ranked) == 0 {
		return nil, fmt.Errorf("no ranked models for %s", analysis.Date)
	}

	bars := make([]chart.Value, 0, maxChartBars)
	for _, r := range ranked {
		if len(bars) >= maxChartBars {
			break
		}
		bars = append(bars, chart.Value{
			Label: r.Name,
			Value: r.Return12Month,
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Model 12-Month Returns %s", analysis.Date),
		Height:   512,
		BarWidth: 60,
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render ranking chart: %w", err)
	}
	return buf.Bytes(), nil
}
