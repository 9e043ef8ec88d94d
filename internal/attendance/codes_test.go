package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCodeToken(t *testing.T) {
	tests := []struct {
		token    string
		expected bool
	}{
		{"P", true},
		{"AG", true},
		{"wo", true}, // lowercase O and W are still alphabet letters
		{"PPP", false},
		{"", false},
		{"12", false},
		{"P1", false},
		{"XY", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCodeToken(tt.token))
		})
	}
}

func TestDecodeCode(t *testing.T) {
	tests := []struct {
		code   string
		first  Category
		second Category
	}{
		{"AG", CategoryAbsent, CategoryWFH},
		{"P", CategoryWFO, CategoryWFO}, // single letter doubles
		{"WW", CategoryWeekend, CategoryWeekend},
		{"HH", CategoryHoliday, CategoryHoliday},
		{"PA", CategoryWFO, CategoryAbsent},
		{"CS", CategoryOther, CategoryOther},
		{"ga", CategoryWFH, CategoryAbsent}, // case-insensitive
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			first, second := DecodeCode(tt.code)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.second, second)
		})
	}
}

func TestCodeFromLeaveTypeText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"work from home", "Leave Type : Work From Home", "GG"},
		{"weekly off", "Leave Type : Weekly Off", "WW"},
		{"optional leave maps to holiday", "Leave Type : Optional Leave", "HH"},
		{"present", "Leave Type : Present", "PP"},
		{"absent", "Leave Type : Absent", "AA"},
		{"unknown", "Leave Type : Jury Duty", ""},
		{
			name:     "half day order decides halves",
			text:     "Leave Type : Absent 1/2, Work From Home 1/2",
			expected: "AG",
		},
		{
			name:     "half day reversed order",
			text:     "Leave Type : Work From Home 1/2 / Absent 1/2",
			expected: "GA",
		},
		{
			name:     "half day casual second half",
			text:     "Leave Type : Present 1/2, Casual Leave 1/2",
			expected: "PC",
		},
		{
			name:     "half day marker with single category falls back",
			text:     "Leave Type : Absent 1/2",
			expected: "AA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CodeFromLeaveTypeText(tt.text))
		})
	}
}

func TestLeaveStatusCategory(t *testing.T) {
	tests := []struct {
		label    string
		expected Category
	}{
		{"Work From Home", CategoryWFH},
		{"Present (Regularized)", CategoryWFO},
		{"Weekly Off", CategoryWeekend},
		{"Public Holiday", CategoryHoliday},
		{"Absent", CategoryAbsent},
		{"Casual Leave", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, LeaveStatusCategory(tt.label))
		})
	}
}

func TestNormalizeSpan(t *testing.T) {
	assert.Equal(t, SpanFull, NormalizeSpan(""))
	assert.Equal(t, SpanFull, NormalizeSpan("whatever"))
	assert.Equal(t, SpanFirstHalf, NormalizeSpan("first_half"))
	assert.Equal(t, SpanSecondHalf, NormalizeSpan("second_half"))
}
