package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/user/iron_analyzer_go/internal/analysis"
	"github.com/user/iron_analyzer_go/internal/parser"
)

// Sheet names written by ExportWorkbook.
const (
	SheetReadings = "Readings"
	SheetSummary  = "Summary"
	SheetMonthly  = "Monthly"
)

// WorkbookExporter writes readings and their statistics to an XLSX workbook
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a new workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger.With(slog.String("component", "xlsx_exporter"))}
}

// ExportWorkbook writes three sheets: every reading, the summary statistics
// and the monthly breakdown.
func (e *WorkbookExporter) ExportWorkbook(path string, c *parser.Collection,
	results *analysis.AnalysisResults, months []analysis.MonthSummary) error {

	if results == nil {
		return fmt.Errorf("no analysis results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C8C8C8"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetReadings); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	readingRows := make([][]interface{}, 0, c.Len())
	for r := range c.All() {
		readingRows = append(readingRows, []interface{}{r.Date, r.BloodIron})
	}
	if err := writeSheet(f, SheetReadings, []string{"Date", "Blood iron"}, readingRows, headerStyle); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetSummary, err)
	}
	summaryRows := [][]interface{}{
		{"Readings", results.Count},
		{"Mean", results.Mean},
		{"Highest", results.Highest},
		{"Lowest", results.Lowest},
		{"Range", results.Range},
		{"Variance", results.Variance},
		{"Standard Deviation", results.StandardDeviation},
		{fmt.Sprintf("Median (%s)", results.MedianMode), results.Median},
	}
	if err := writeSheet(f, SheetSummary, []string{"Statistic", "Value"}, summaryRows, headerStyle); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetMonthly); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetMonthly, err)
	}
	monthRows := make([][]interface{}, len(months))
	for i, m := range months {
		monthRows[i] = []interface{}{m.Month, m.Count, m.Mean, m.Lowest, m.Highest}
	}
	if err := writeSheet(f, SheetMonthly, []string{"Month", "Readings", "Mean", "Lowest", "Highest"}, monthRows, headerStyle); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Wrote workbook",
		slog.String("path", path),
		slog.Int("readings", c.Len()),
		slog.Int("months", len(months)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	lastCol, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	return f.SetColWidth(sheet, "A", "A", 20)
}
