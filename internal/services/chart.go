package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"cryptodash/internal/models"
)

// RenderPriceChart renders a PNG line chart of a price history series.
// Returns raw PNG bytes.
func RenderPriceChart(asset *models.AssetData) ([]byte, error) {
	if len(asset.Prices) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(asset.Prices))
	}

	xValues := make([]time.Time, len(asset.Prices))
	yValues := make([]float64, len(asset.Prices))
	for i, p := range asset.Prices {
		xValues[i] = time.UnixMilli(p.Timestamp).UTC()
		yValues[i] = p.Price
	}

	priceSeries := chart.TimeSeries{
		Name: asset.Symbol,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	currencyPrefix := "$"
	if asset.Currency == "BRL" {
		currencyPrefix = "R$"
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s (%s)", asset.Symbol, asset.Currency),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%s%.2f", currencyPrefix, f)
				}
				return ""
			},
		},
		Series: []chart.Series{priceSeries},
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
