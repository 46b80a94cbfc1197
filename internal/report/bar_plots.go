package report

import (
	"fmt"
	"image/color"

	"github.com/user/iron_analyzer_go/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// CreateMonthlyBarPlot draws one bar per month with its mean reading.
func CreateMonthlyBarPlot(months []analysis.MonthSummary, opts PlotOptions) ([]byte, error) {
	if len(months) == 0 {
		return nil, fmt.Errorf("no monthly data to plot")
	}

	means := make(plotter.Values, len(months))
	names := make([]string, len(months))
	for i, m := range months {
		means[i] = m.Mean
		names[i] = m.Month
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.Y.Label.Text = "Mean blood iron"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(means, vg.Points(30))
	if err != nil {
		return nil, fmt.Errorf("failed to create bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	return renderPNG(p, opts)
}
