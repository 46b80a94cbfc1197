package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		delimiter string
		want      Reading
		wantErr   bool
		wantField string
	}{
		{
			name:      "simple line",
			line:      "15-SEP,7.3",
			delimiter: ",",
			want:      Reading{Date: "15-SEP", BloodIron: 7.3},
		},
		{
			name:      "trailing newline",
			line:      "01-OCT,12.5\n",
			delimiter: ",",
			want:      Reading{Date: "01-OCT", BloodIron: 12.5},
		},
		{
			name:      "crlf and padded value",
			line:      "02-OCT, 9\r\n",
			delimiter: ",",
			want:      Reading{Date: "02-OCT", BloodIron: 9},
		},
		{
			name:      "empty delimiter uses default",
			line:      "03-OCT,4.0",
			delimiter: "",
			want:      Reading{Date: "03-OCT", BloodIron: 4},
		},
		{
			name:      "semicolon delimiter",
			line:      "04-OCT;5.5",
			delimiter: ";",
			want:      Reading{Date: "04-OCT", BloodIron: 5.5},
		},
		{
			name:      "non numeric reading",
			line:      "15-SEP,abc",
			delimiter: ",",
			wantErr:   true,
			wantField: "bloodIron",
		},
		{
			name:      "missing reading",
			line:      "15-SEP",
			delimiter: ",",
			wantErr:   true,
		},
		{
			name:      "too many fields",
			line:      "15-SEP,1.0,2.0",
			delimiter: ",",
			wantErr:   true,
		},
		{
			name:      "empty reading",
			line:      "15-SEP,",
			delimiter: ",",
			wantErr:   true,
			wantField: "bloodIron",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.line, tt.delimiter)
			if tt.wantErr {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, tt.wantField, pe.Field)
				assert.Equal(t, strings.TrimSpace(tt.line), pe.Line)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRecordRoundTrip(t *testing.T) {
	lines := []string{"15-SEP,7.3", "01-OCT,0.0", "28-FEB,123.4", "7-JUL,10.0"}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			r, err := ParseRecord(line, ",")
			require.NoError(t, err)
			assert.Equal(t, line, fmt.Sprintf("%s,%.1f", r.Date, r.BloodIron))
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseRecord("15-SEP,abc", ",")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field bloodIron "abc"`)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Error(t, errors.Unwrap(pe))
}

func writeReadings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderLoadFile(t *testing.T) {
	path := writeReadings(t, "01-SEP,8.1\n\n15-SEP,7.3\n01-OCT,9.0\n")

	c, err := NewLoader(",", 10, nil).LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, Reading{Date: "01-SEP", BloodIron: 8.1}, c.At(0))
	assert.Equal(t, Reading{Date: "01-OCT", BloodIron: 9.0}, c.At(2))
	assert.Equal(t, []float64{8.1, 7.3, 9.0}, c.Values())
	assert.Equal(t, 10, c.Capacity())
}

func TestLoaderLoadReturnsCount(t *testing.T) {
	c := NewCollection(5)
	n, err := NewLoader(",", 5, nil).Load(strings.NewReader("a-SEP,1\nb-SEP,2\n"), c)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, c.Len())
}

func TestLoaderCapacityExceeded(t *testing.T) {
	path := writeReadings(t, "01-SEP,1\n02-SEP,2\n03-SEP,3\n04-SEP,4\n")

	c, err := NewLoader(",", 3, nil).LoadFile(path)
	assert.Nil(t, c)

	var ce *CapacityExceededError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 3, ce.Capacity)
	assert.Equal(t, 4, ce.LineNo)
}

func TestLoaderExactCapacity(t *testing.T) {
	path := writeReadings(t, "01-SEP,1\n02-SEP,2\n03-SEP,3\n")

	c, err := NewLoader(",", 3, nil).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestLoaderRejectsInvalidRows(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantLine  int
		wantField string
	}{
		{"non numeric", "01-SEP,1\n02-SEP,x\n", 2, "bloodIron"},
		{"negative", "01-SEP,-1\n", 1, "bloodIron"},
		{"nan", "01-SEP,2\n02-SEP,3\n03-SEP,NaN\n", 3, "bloodIron"},
		{"infinite", "01-SEP,+Inf\n", 1, "bloodIron"},
		{"empty date", ",4.2\n", 1, "date"},
		{"long date", strings.Repeat("X", MaxDateLength+1) + ",4.2\n", 1, "date"},
		{"one field", "01-SEP,1\n01-SEP\n", 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeReadings(t, tt.content)
			_, err := NewLoader(",", 10, nil).LoadFile(path)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantLine, pe.LineNo)
			assert.Equal(t, tt.wantField, pe.Field)
			assert.NotEmpty(t, pe.Reason)
		})
	}
}

func TestLoaderOpenErrors(t *testing.T) {
	loader := NewLoader(",", 10, nil)

	_, err := loader.LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, KindNotFound, ioErr.Kind)
	assert.Equal(t, "open", ioErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = loader.LoadFile(t.TempDir())
	require.Error(t, err)
}

func TestLoaderPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := writeReadings(t, "01-SEP,1\n")
	require.NoError(t, os.Chmod(path, 0o000))

	_, err := NewLoader(",", 10, nil).LoadFile(path)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, KindPermissionDenied, ioErr.Kind)
}

func TestLoaderReadError(t *testing.T) {
	readErr := errors.New("disk went away")
	_, err := NewLoader(",", 10, nil).Load(iotest.ErrReader(readErr), NewCollection(10))

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Op)
	assert.Equal(t, KindOther, ioErr.Kind)
	assert.ErrorIs(t, err, readErr)
}
