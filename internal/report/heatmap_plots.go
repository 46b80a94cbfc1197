package report

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/user/iron_analyzer_go/internal/analysis"
	"github.com/user/iron_analyzer_go/internal/parser"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

const daysPerMonth = 31

// monthDayGrid lays readings out as days (columns) by months (rows).
// Cells without a reading are NaN.
type monthDayGrid struct {
	months []string
	z      [][]float64 // [month][day-1]
}

func (g *monthDayGrid) Dims() (c, r int)   { return daysPerMonth, len(g.months) }
func (g *monthDayGrid) Z(c, r int) float64 { return g.z[r][c] }
func (g *monthDayGrid) X(c int) float64    { return float64(c + 1) }
func (g *monthDayGrid) Y(r int) float64    { return float64(r) }

// dayOfMonth returns the leading day number of a label like "15-SEP".
func dayOfMonth(date string) (int, bool) {
	dayStr, _, found := strings.Cut(date, "-")
	if !found {
		return 0, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > daysPerMonth {
		return 0, false
	}
	return day, true
}

// newMonthDayGrid builds the grid. Labels without a usable day are skipped
// and counted; a later reading for the same day replaces an earlier one.
func newMonthDayGrid(c *parser.Collection) (*monthDayGrid, int) {
	g := &monthDayGrid{}
	rowOf := make(map[string]int)
	skipped := 0

	for r := range c.All() {
		day, ok := dayOfMonth(r.Date)
		if !ok {
			skipped++
			continue
		}
		month := analysis.MonthToken(r.Date)
		row, seen := rowOf[month]
		if !seen {
			row = len(g.months)
			rowOf[month] = row
			g.months = append(g.months, month)
			cells := make([]float64, daysPerMonth)
			for i := range cells {
				cells[i] = math.NaN()
			}
			g.z = append(g.z, cells)
		}
		g.z[row][day-1] = r.BloodIron
	}
	return g, skipped
}

// CreateMonthDayHeatmap draws a month by day-of-month heatmap of the readings.
func CreateMonthDayHeatmap(c *parser.Collection, results *analysis.AnalysisResults, opts PlotOptions) ([]byte, error) {
	if c.Len() == 0 || results == nil {
		return nil, fmt.Errorf("no readings to plot heatmap")
	}

	grid, _ := newMonthDayGrid(c)
	if len(grid.months) == 0 {
		return nil, fmt.Errorf("no date labels with a day of month")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Day of month"
	p.Y.Label.Text = "Month"

	yTicks := make([]plot.Tick, len(grid.months))
	for i, name := range grid.months {
		yTicks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Y.Min = -0.5
	p.Y.Max = float64(len(grid.months)) - 0.5

	xTicks := []plot.Tick{}
	for day := 1; day <= daysPerMonth; day += 5 {
		xTicks = append(xTicks, plot.Tick{Value: float64(day), Label: strconv.Itoa(day)})
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.X.Min = 0.5
	p.X.Max = daysPerMonth + 0.5

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.Min = results.Lowest
	hm.Max = results.Highest
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}
	hm.NaN = color.Gray{Y: 230}
	p.Add(hm)

	return renderPNG(p, opts)
}
