package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/user/iron_analyzer_go/internal/parser"
)

// values returns the readings of c, or an *EmptyCollectionError naming stat.
func values(c *parser.Collection, stat string) ([]float64, error) {
	if c.Len() == 0 {
		return nil, &EmptyCollectionError{Stat: stat}
	}
	return c.Values(), nil
}

// Mean returns the arithmetic mean of the readings.
func Mean(c *parser.Collection) (float64, error) {
	data, err := values(c, "mean")
	if err != nil {
		return 0, err
	}
	return stats.Mean(data)
}

// Highest returns the largest reading.
func Highest(c *parser.Collection) (float64, error) {
	data, err := values(c, "highest")
	if err != nil {
		return 0, err
	}
	return stats.Max(data)
}

// Lowest returns the smallest reading.
func Lowest(c *parser.Collection) (float64, error) {
	data, err := values(c, "lowest")
	if err != nil {
		return 0, err
	}
	return stats.Min(data)
}

// Range returns Highest - Lowest.
func Range(c *parser.Collection) (float64, error) {
	hi, err := Highest(c)
	if err != nil {
		return 0, &EmptyCollectionError{Stat: "range"}
	}
	lo, err := Lowest(c)
	if err != nil {
		return 0, err
	}
	return hi - lo, nil
}

// Variance returns the population variance (divisor N).
func Variance(c *parser.Collection) (float64, error) {
	data, err := values(c, "variance")
	if err != nil {
		return 0, err
	}
	return stats.PopulationVariance(data)
}

// StandardDeviation returns the square root of the population variance.
func StandardDeviation(c *parser.Collection) (float64, error) {
	v, err := Variance(c)
	if err != nil {
		return 0, &EmptyCollectionError{Stat: "standard deviation"}
	}
	return math.Sqrt(v), nil
}

// Median returns the median of the readings according to mode.
func Median(c *parser.Collection, mode MedianMode) (float64, error) {
	data, err := values(c, "median")
	if err != nil {
		return 0, err
	}
	switch mode {
	case MedianPositional, "":
		return data[len(data)/2], nil
	case MedianSorted:
		// stats.Median sorts a copy
		return stats.Median(data)
	}
	return 0, fmt.Errorf("unknown median mode %q", mode)
}

// AnalyzeReadings computes every summary statistic of c.
func AnalyzeReadings(c *parser.Collection, mode MedianMode) (*AnalysisResults, error) {
	if c.Len() == 0 {
		return nil, &EmptyCollectionError{Stat: "summary statistics"}
	}
	if mode == "" {
		mode = MedianPositional
	}

	results := &AnalysisResults{Count: c.Len(), MedianMode: mode}

	var err error
	if results.Mean, err = Mean(c); err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	if results.Highest, err = Highest(c); err != nil {
		return nil, fmt.Errorf("highest: %w", err)
	}
	if results.Lowest, err = Lowest(c); err != nil {
		return nil, fmt.Errorf("lowest: %w", err)
	}
	results.Range = results.Highest - results.Lowest
	if results.Variance, err = Variance(c); err != nil {
		return nil, fmt.Errorf("variance: %w", err)
	}
	results.StandardDeviation = math.Sqrt(results.Variance)
	if results.Median, err = Median(c, mode); err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}

	return results, nil
}

// MonthToken returns the part of a date label after its last '-', e.g. "SEP"
// for "15-SEP". Labels without a '-' are returned whole.
func MonthToken(date string) string {
	if i := strings.LastIndex(date, "-"); i >= 0 {
		return date[i+1:]
	}
	return date
}

// MonthlyBreakdown groups readings by MonthToken, in order of first appearance.
func MonthlyBreakdown(c *parser.Collection) []MonthSummary {
	order := []string{}
	grouped := make(map[string][]float64)
	for r := range c.All() {
		month := MonthToken(r.Date)
		if _, seen := grouped[month]; !seen {
			order = append(order, month)
		}
		grouped[month] = append(grouped[month], r.BloodIron)
	}

	summaries := make([]MonthSummary, 0, len(order))
	for _, month := range order {
		data := grouped[month]
		// data is never empty here, so the stats errors are nil
		mean, _ := stats.Mean(data)
		lo, _ := stats.Min(data)
		hi, _ := stats.Max(data)
		summaries = append(summaries, MonthSummary{
			Month:   month,
			Count:   len(data),
			Mean:    mean,
			Lowest:  lo,
			Highest: hi,
		})
	}
	return summaries
}
