package analysis

import "fmt"

// MedianMode selects how the median is taken.
type MedianMode string

const (
	// MedianPositional takes the reading at index N/2 in file order, unsorted.
	MedianPositional MedianMode = "positional"
	// MedianSorted is the statistical median of the sorted values.
	MedianSorted MedianMode = "sorted"
)

// ParseMedianMode accepts "positional", "sorted" or "" (positional).
func ParseMedianMode(s string) (MedianMode, error) {
	switch MedianMode(s) {
	case "", MedianPositional:
		return MedianPositional, nil
	case MedianSorted:
		return MedianSorted, nil
	}
	return "", fmt.Errorf("unknown median mode %q", s)
}

// AnalysisResults holds the summary statistics of one collection.
type AnalysisResults struct {
	Count             int
	Mean              float64
	Highest           float64
	Lowest            float64
	Range             float64
	Variance          float64 // population variance
	StandardDeviation float64
	Median            float64
	MedianMode        MedianMode
}

// MonthSummary aggregates the readings sharing a month token.
type MonthSummary struct {
	Month   string
	Count   int
	Mean    float64
	Lowest  float64
	Highest float64
}

// EmptyCollectionError is returned when a statistic is requested for zero readings.
type EmptyCollectionError struct {
	Stat string
}

func (e *EmptyCollectionError) Error() string {
	return fmt.Sprintf("cannot compute %s of an empty collection", e.Stat)
}
