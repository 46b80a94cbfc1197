package parser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowValidatorCheck(t *testing.T) {
	v := NewRowValidator()

	tests := []struct {
		name       string
		reading    Reading
		wantField  string
		wantReason string
	}{
		{"valid", Reading{Date: "15-SEP", BloodIron: 7.3}, "", ""},
		{"zero is valid", Reading{Date: "15-SEP", BloodIron: 0}, "", ""},
		{"empty date", Reading{Date: "", BloodIron: 1}, "date", "date label is empty"},
		{"long date", Reading{Date: "2024-09-15-SEPTEMBER!", BloodIron: 1}, "date", "date label longer than 19 characters"},
		{"negative", Reading{Date: "15-SEP", BloodIron: -0.5}, "bloodIron", "reading is negative"},
		{"nan", Reading{Date: "15-SEP", BloodIron: math.NaN()}, "bloodIron", "reading is not a finite number"},
		{"infinity", Reading{Date: "15-SEP", BloodIron: math.Inf(1)}, "bloodIron", "reading is not a finite number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(tt.reading)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantField, pe.Field)
			assert.Equal(t, tt.wantReason, pe.Reason)
		})
	}
}
