package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/iron_analyzer_go/internal/analysis"
	"github.com/user/iron_analyzer_go/internal/parser"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
	pdfFooterHeight        = 8
)

// Plot image keys understood by BuildPDFReport.
const (
	PlotReadingsLine    = "readings_line"
	PlotMonthlyBar      = "monthly_bar"
	PlotMonthDayHeatmap = "month_day_heatmap"
)

// ReportMeta identifies a generated report.
type ReportMeta struct {
	Title      string
	SourceFile string
	ReportID   string
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64
	pageBottom  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageBottom:  pdfPageHeightLandscape - pdfMargin - pdfFooterHeight,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() { // highest / lowest readings
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageBottom {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(math.Max(1, float64(len(lines))) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.currentY += height
	if s.currentY > s.pageBottom {
		s.newPage()
	}
}

// drawTable draws headers and rows with column widths given as fractions of
// the content width. highlight marks cells drawn in the red style.
func (s *pdfStyler) drawTable(headers []string, colWidthsRel []float64, rows [][]string, highlight func(row, col int) bool) {
	colWidths := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidths[i] = rel * pdfContentWidth
	}

	drawHeader := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, header := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(colWidths[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
			x += colWidths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	drawHeader()

	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageBottom {
			s.newPage()
			drawHeader()
		}
		x := pdfMargin
		for col, cell := range row {
			if highlight != nil && highlight(r, col) {
				s.applyStyle("tableCellRed")
			} else {
				s.applyStyle("tableCell")
			}
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(colWidths[col], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			x += colWidths[col]
		}
		s.currentY += s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(imageName, x, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

// BuildPDFReport writes a landscape Letter PDF with the summary statistics,
// the monthly breakdown, every reading and the rendered plots.
func BuildPDFReport(filepath string, c *parser.Collection, results *analysis.AnalysisResults,
	months []analysis.MonthSummary, plotImages map[string][]byte, meta ReportMeta) error {

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(meta.Title, true)
	pdf.SetFooterFunc(func() {
		pdf.SetXY(pdfMargin, pdfPageHeightLandscape-pdfMargin-pdfFooterHeight/2)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(pdfContentWidth, 4,
			fmt.Sprintf("Report %s - page %d", meta.ReportID, pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	styler := newPDFStyler(pdf)
	styler.newPage()

	styler.writeParagraph(fmt.Sprintf("%s (%d Readings)", meta.Title, c.Len()), "h1", "C")
	styler.addSpacer(3)
	if meta.SourceFile != "" {
		styler.writeParagraph("Source: "+meta.SourceFile, "normal", "L")
	}

	if results == nil || c.Len() == 0 {
		styler.writeParagraph("No readings to display.", "normal", "L")
		return pdf.OutputFileAndClose(filepath)
	}

	styler.addSpacer(3)
	styler.writeParagraph("Summary Statistics", "h2", "L")
	styler.drawTable(
		[]string{"Statistic", "Value"},
		[]float64{0.3, 0.2},
		[][]string{
			{"Readings", strconv.Itoa(results.Count)},
			{"Mean", fmt.Sprintf("%.2f", results.Mean)},
			{"Highest", fmt.Sprintf("%.2f", results.Highest)},
			{"Lowest", fmt.Sprintf("%.2f", results.Lowest)},
			{"Range", fmt.Sprintf("%.2f", results.Range)},
			{"Standard Deviation", fmt.Sprintf("%.2f", results.StandardDeviation)},
			{fmt.Sprintf("Median (%s)", results.MedianMode), fmt.Sprintf("%.2f", results.Median)},
		},
		nil,
	)
	styler.addSpacer(5)

	styler.writeParagraph("Monthly Breakdown", "h2", "L")
	if len(months) > 0 {
		rows := make([][]string, len(months))
		for i, m := range months {
			rows[i] = []string{
				m.Month,
				strconv.Itoa(m.Count),
				fmt.Sprintf("%.2f", m.Mean),
				fmt.Sprintf("%.1f", m.Lowest),
				fmt.Sprintf("%.1f", m.Highest),
			}
		}
		styler.drawTable(
			[]string{"Month", "Readings", "Mean", "Lowest", "Highest"},
			[]float64{0.15, 0.15, 0.15, 0.15, 0.15},
			rows,
			nil,
		)
	} else {
		styler.writeParagraph("No monthly data.", "normal", "L")
	}

	styler.newPage()
	styler.writeParagraph("Readings", "h2", "L")
	rows := make([][]string, 0, c.Len())
	for r := range c.All() {
		rows = append(rows, []string{strconv.Itoa(len(rows) + 1), r.Date, fmt.Sprintf("%.1f", r.BloodIron)})
	}
	styler.drawTable(
		[]string{"#", "Date", "Blood iron"},
		[]float64{0.1, 0.25, 0.2},
		rows,
		func(row, col int) bool {
			v := c.At(row).BloodIron
			return col == 2 && (v == results.Highest || v == results.Lowest)
		},
	)

	plotDefs := []struct {
		Key     string
		Title   string
		Caption string
	}{
		{PlotReadingsLine, "Readings Over Time", "Blood iron readings in file order with the mean"},
		{PlotMonthlyBar, "Monthly Means", "Mean blood iron per month"},
		{PlotMonthDayHeatmap, "Month by Day", "Blood iron by day of month"},
	}

	imgWidth := pdfContentWidth * 0.9
	imgHeight := imgWidth * (4.0 / 10.0)

	for _, pDef := range plotDefs {
		imgBytes, ok := plotImages[pDef.Key]
		if !ok || len(imgBytes) == 0 {
			slog.Debug("Plot not available for PDF", slog.String("plot", pDef.Key))
			continue
		}
		styler.newPage()
		styler.writeParagraph(pDef.Title, "h2", "L")
		styler.addImage(imgBytes, pDef.Key, imgWidth, imgHeight, pDef.Caption)
	}

	return pdf.OutputFileAndClose(filepath)
}
