package validator

import (
	"testing"

	"github.com/stemsi/reportcard-backend/internal/marksheet"
	"github.com/stretchr/testify/assert"
)

func TestValidateValues(t *testing.T) {
	rules := map[string]marksheet.Rule{
		"name":             {Required: true},
		"guardian":         {},
		"marks_Final_Math": {Required: true, Numeric: true, Min: 0, Max: 100},
		"marks_Final_Lab":  {Required: true, Numeric: true, Min: 0, Max: 12.5},
	}

	tests := []struct {
		name   string
		values map[string]string
		want   map[string]string
	}{
		{
			name:   "all valid",
			values: map[string]string{"name": "Asha", "marks_Final_Math": "80", "marks_Final_Lab": "12.5"},
			want:   nil,
		},
		{
			name:   "missing required",
			values: map[string]string{"name": "  ", "marks_Final_Math": "80", "marks_Final_Lab": "1"},
			want:   map[string]string{"name": "is required"},
		},
		{
			name:   "blank mark",
			values: map[string]string{"name": "Asha", "marks_Final_Math": "", "marks_Final_Lab": "1"},
			want:   map[string]string{"marks_Final_Math": "is required"},
		},
		{
			name:   "not a number",
			values: map[string]string{"name": "Asha", "marks_Final_Math": "eighty", "marks_Final_Lab": "1"},
			want:   map[string]string{"marks_Final_Math": "must be a number"},
		},
		{
			name:   "out of range",
			values: map[string]string{"name": "Asha", "marks_Final_Math": "101", "marks_Final_Lab": "-1"},
			want: map[string]string{
				"marks_Final_Math": "must be between 0 and 100",
				"marks_Final_Lab":  "must be between 0 and 12.5",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateValues(rules, tt.values))
		})
	}
}

func TestValidateValuesBoundariesInclusive(t *testing.T) {
	rules := map[string]marksheet.Rule{"m": {Required: true, Numeric: true, Min: 0, Max: 50}}
	assert.Nil(t, ValidateValues(rules, map[string]string{"m": "0"}))
	assert.Nil(t, ValidateValues(rules, map[string]string{"m": "50"}))
	assert.NotNil(t, ValidateValues(rules, map[string]string{"m": "50.01"}))
}

func TestValidateValuesAgreesWithTally(t *testing.T) {
	rules := map[string]marksheet.Rule{"m": {Required: true, Numeric: true, Min: 0, Max: 1000}}
	for _, raw := range []string{"1e2", "0x10", ".5", "Inf", " 40", "72.5", "+10"} {
		_, counted := marksheet.ParseScore(raw)
		fields := ValidateValues(rules, map[string]string{"m": raw})
		assert.Equal(t, counted, fields == nil, "raw %q", raw)
	}
}
