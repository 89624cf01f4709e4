package chartrender

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/moneyseed/moneyseed-backend/internal/domain"
)

// RenderProjectionChart renders a PNG line chart from a projection series.
// Two series: Total Asset (blue solid) and Principal (gray dashed).
// Returns raw PNG bytes.
func RenderProjectionChart(series []domain.GrowthPoint) ([]byte, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(series))
	}

	months := make([]float64, len(series))
	assetY := make([]float64, len(series))
	principalY := make([]float64, len(series))

	for i, p := range series {
		months[i] = float64(p.Month)
		assetY[i], _ = p.TotalAsset.Float64()
		principalY[i], _ = p.Principal.Float64()
	}

	assetSeries := chart.ContinuousSeries{
		Name: "Total Asset",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: months,
		YValues: assetY,
	}

	principalSeries := chart.ContinuousSeries{
		Name: "Principal",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: months,
		YValues: principalY,
	}

	graph := chart.Chart{
		Title:  "Investment Projection",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0fm", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1fM", f/1000000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			assetSeries,
			principalSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
