package report

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/user/iron_analyzer_go/internal/analysis"
	"github.com/user/iron_analyzer_go/internal/parser"
)

// FormatReading renders r as "15-SEP - Blood iron: 7.3".
func FormatReading(r parser.Reading) string {
	return fmt.Sprintf("%s - Blood iron: %.1f", r.Date, r.BloodIron)
}

func writeReadings(w io.Writer, readings iter.Seq[parser.Reading]) (int, error) {
	n := 0
	for r := range readings {
		if _, err := fmt.Fprintln(w, FormatReading(r)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// DisplayRecords writes one line per reading, in file order.
func DisplayRecords(w io.Writer, c *parser.Collection) error {
	_, err := writeReadings(w, c.All())
	return err
}

// MonthlyFilter yields, in file order, the readings whose date label contains
// month. Matching is plain case-sensitive substring containment.
func MonthlyFilter(c *parser.Collection, month string) iter.Seq[parser.Reading] {
	return func(yield func(parser.Reading) bool) {
		for r := range c.All() {
			if strings.Contains(r.Date, month) && !yield(r) {
				return
			}
		}
	}
}

// DisplayMonthly writes the readings matching month and returns how many there were.
func DisplayMonthly(w io.Writer, c *parser.Collection, month string) (int, error) {
	return writeReadings(w, MonthlyFilter(c, month))
}

// SummaryReport writes range, mean, standard deviation and median, one per line.
func SummaryReport(w io.Writer, results *analysis.AnalysisResults) error {
	if results == nil {
		return fmt.Errorf("no analysis results to report")
	}
	_, err := fmt.Fprintf(w,
		"Range: %.2f\nMean: %.2f\nStandard Deviation: %.2f\nMedian: %.2f\n",
		results.Range, results.Mean, results.StandardDeviation, results.Median)
	return err
}
