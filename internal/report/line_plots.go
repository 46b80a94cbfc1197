package report

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/user/iron_analyzer_go/internal/analysis"
	"github.com/user/iron_analyzer_go/internal/parser"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// maxDateTicks caps how many date labels are drawn on the X axis.
const maxDateTicks = 12

// PlotOptions sizes and titles a rendered plot.
type PlotOptions struct {
	Title  string
	Width  float64 // points
	Height float64 // points
}

func (o PlotOptions) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 400
	}
	return vg.Points(w), vg.Points(h)
}

// CreateReadingsPlot draws the readings in file order with the mean as a
// dashed line, and returns the PNG bytes.
func CreateReadingsPlot(c *parser.Collection, results *analysis.AnalysisResults, opts PlotOptions) ([]byte, error) {
	if c.Len() == 0 {
		return nil, fmt.Errorf("no readings to plot")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Blood iron"
	p.X.Min = 0
	p.X.Max = float64(c.Len() - 1)
	p.X.Tick.Marker = plot.ConstantTicks(generateDateTicks(c, maxDateTicks))
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, c.Len())
	for i := range c.Len() {
		pts[i] = plotter.XY{X: float64(i), Y: c.At(i).BloodIron}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create readings line: %w", err)
	}
	line.Color = color.RGBA{B: 200, A: 255}
	line.Width = vg.Points(1.5)
	p.Add(line)

	points, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create readings points: %w", err)
	}
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(2)
	points.GlyphStyle.Color = color.RGBA{B: 200, A: 255}
	p.Add(points)
	p.Legend.Add("Blood iron", line, points)

	if results != nil {
		meanLine, err := plotter.NewLine(plotter.XYs{{X: 0, Y: results.Mean}, {X: p.X.Max, Y: results.Mean}})
		if err != nil {
			return nil, fmt.Errorf("failed to create mean line: %w", err)
		}
		meanLine.Color = color.RGBA{R: 255, A: 255}
		meanLine.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(meanLine)
		p.Legend.Add(fmt.Sprintf("Mean %.2f", results.Mean), meanLine)
	}

	if c.Len() == 1 {
		// a single point has no X extent
		p.X.Min, p.X.Max = -1, 1
	}

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)

	return renderPNG(p, opts)
}

// generateDateTicks labels at most maxTicks readings, evenly spaced, with their date.
func generateDateTicks(c *parser.Collection, maxTicks int) []plot.Tick {
	n := c.Len()
	if n == 0 || maxTicks <= 0 {
		return nil
	}
	step := (n + maxTicks - 1) / maxTicks

	ticks := make([]plot.Tick, 0, maxTicks)
	for i := 0; i < n; i += step {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: c.At(i).Date})
	}
	return ticks
}

func renderPNG(p *plot.Plot, opts PlotOptions) ([]byte, error) {
	w, h := opts.size()
	writer, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}
