package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/iron_analyzer_go/internal/analysis"
	"github.com/user/iron_analyzer_go/internal/parser"
)

func sampleCollection(t *testing.T) *parser.Collection {
	t.Helper()
	c, err := parser.NewCollectionFrom(10,
		parser.Reading{Date: "01-SEP", BloodIron: 1.0},
		parser.Reading{Date: "15-OCT", BloodIron: 2.0},
		parser.Reading{Date: "28-SEP", BloodIron: 3.0},
	)
	require.NoError(t, err)
	return c
}

func TestFormatReading(t *testing.T) {
	assert.Equal(t, "15-SEP - Blood iron: 7.3", FormatReading(parser.Reading{Date: "15-SEP", BloodIron: 7.3}))
	assert.Equal(t, "01-OCT - Blood iron: 12.0", FormatReading(parser.Reading{Date: "01-OCT", BloodIron: 12}))
	assert.Equal(t, "02-OCT - Blood iron: 8.3", FormatReading(parser.Reading{Date: "02-OCT", BloodIron: 8.25001}))
}

func TestDisplayRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayRecords(&buf, sampleCollection(t)))
	assert.Equal(t,
		"01-SEP - Blood iron: 1.0\n15-OCT - Blood iron: 2.0\n28-SEP - Blood iron: 3.0\n",
		buf.String())
}

func TestDisplayRecordsFromParsedLine(t *testing.T) {
	r, err := parser.ParseRecord("15-SEP,7.3\n", ",")
	require.NoError(t, err)
	assert.Equal(t, "15-SEP - Blood iron: 7.3", FormatReading(r))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestDisplayRecordsWriteError(t *testing.T) {
	assert.Error(t, DisplayRecords(failingWriter{}, sampleCollection(t)))
}

func TestMonthlyFilter(t *testing.T) {
	var got []parser.Reading
	for r := range MonthlyFilter(sampleCollection(t), "SEP") {
		got = append(got, r)
	}
	assert.Equal(t, []parser.Reading{
		{Date: "01-SEP", BloodIron: 1.0},
		{Date: "28-SEP", BloodIron: 3.0},
	}, got)
}

func TestMonthlyFilterNoMatchAndCase(t *testing.T) {
	c := sampleCollection(t)
	for range MonthlyFilter(c, "NOV") {
		t.Fatal("unexpected match for NOV")
	}
	for range MonthlyFilter(c, "sep") {
		t.Fatal("matching is case-sensitive")
	}
}

func TestMonthlyFilterIsLazy(t *testing.T) {
	c := sampleCollection(t)
	count := 0
	for range MonthlyFilter(c, "-") {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestDisplayMonthly(t *testing.T) {
	var buf bytes.Buffer
	n, err := DisplayMonthly(&buf, sampleCollection(t), "OCT")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "15-OCT - Blood iron: 2.0\n", buf.String())
}

func TestSummaryReport(t *testing.T) {
	results, err := analysis.AnalyzeReadings(sampleCollection(t), analysis.MedianPositional)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SummaryReport(&buf, results))
	assert.Equal(t,
		"Range: 2.00\nMean: 2.00\nStandard Deviation: 0.82\nMedian: 2.00\n",
		buf.String())

	assert.Error(t, SummaryReport(&buf, nil))
}
