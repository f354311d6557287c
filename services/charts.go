package services

import (
	"bytes"
	"errors"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/fintrack/fintrack-api/models"
)

var ErrNoChartData = errors.New("no data points to chart")

// RenderTrendChart draws the daily income/expense series as a PNG for
// clients that want a server-rendered image instead of the JSON series.
func RenderTrendChart(trend []models.DailyPoint) ([]byte, error) {
	if len(trend) < 2 {
		// go-chart needs at least two points to draw a line
		return nil, ErrNoChartData
	}

	xValues := make([]time.Time, len(trend))
	incomeValues := make([]float64, len(trend))
	expenseValues := make([]float64, len(trend))

	for i, point := range trend {
		day, err := time.Parse("2006-01-02", point.Day)
		if err != nil {
			return nil, err
		}
		xValues[i] = day
		incomeValues[i], _ = point.Income.Float64()
		expenseValues[i], _ = point.Expense.Float64()
	}

	graph := chart.Chart{
		Width:  1000,
		Height: 480,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 40, Right: 40, Bottom: 40},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("02-Jan"),
			Style:          chart.Style{FontSize: 11, FontColor: chart.ColorBlack},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 11, FontColor: chart.ColorBlack},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Income",
				XValues: xValues,
				YValues: incomeValues,
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2},
			},
			chart.TimeSeries{
				Name:    "Expense",
				XValues: xValues,
				YValues: expenseValues,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{FontSize: 11, FontColor: chart.ColorBlack}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
