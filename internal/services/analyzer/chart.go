package analyzer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/folioview/folio/internal/models"
)

// RenderPerformanceChart renders the valuation series as a PNG line chart
// in the requested display currency. Returns raw PNG bytes.
func RenderPerformanceChart(series []models.ValuationPoint, currency string) ([]byte, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(series))
	}

	xValues := make([]time.Time, len(series))
	yValues := make([]float64, len(series))
	for i, p := range series {
		xValues[i] = p.Date
		switch currency {
		case "INR":
			yValues[i] = p.ValueINR
		case "SGD":
			yValues[i] = p.ValueSGD
		default:
			yValues[i] = p.ValueUSD
		}
	}

	valueSeries := chart.TimeSeries{
		Name: fmt.Sprintf("Portfolio Value (%s)", displayCurrency(currency)),
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := chart.Chart{
		Title:  "Portfolio Performance",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{valueSeries},
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

func displayCurrency(currency string) string {
	switch currency {
	case "INR", "SGD":
		return currency
	default:
		return "USD"
	}
}
