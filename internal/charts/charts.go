// Package charts renders the monthly report as a PNG.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"gastos/internal/format"
	"gastos/internal/metrics"
)

// Renderer draws report charts.
type Renderer struct{}

// NewRenderer creates a chart renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// MonthlyReport draws income, expenses and balance over the series as a
// PNG. An empty series yields nil without error.
func (r *Renderer) MonthlyReport(series []metrics.MonthPoint) ([]byte, error) {
	if len(series) == 0 {
		return nil, nil
	}

	xValues := make([]float64, len(series))
	incomeValues := make([]float64, len(series))
	expenseValues := make([]float64, len(series))
	balanceValues := make([]float64, len(series))
	ticks := make([]chart.Tick, len(series))
	for i, p := range series {
		x := float64(i)
		xValues[i] = x
		incomeValues[i] = p.Income
		expenseValues[i] = p.Expenses
		balanceValues[i] = p.Balance
		ticks[i] = chart.Tick{Value: x, Label: p.Label}
	}

	graph := chart.Chart{
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				return format.Currency(f)
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Ingresos",
				XValues: xValues,
				YValues: incomeValues,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.ContinuousSeries{
				Name:    "Gastos",
				XValues: xValues,
				YValues: expenseValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
			chart.ContinuousSeries{
				Name:    "Balance",
				XValues: xValues,
				YValues: balanceValues,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render monthly report: %w", err)
	}
	return buf.Bytes(), nil
}
