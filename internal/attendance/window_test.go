package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCycleStart(t *testing.T) {
	tests := []struct {
		name     string
		ref      time.Time
		expected time.Time
	}{
		{
			name:     "on the 20th the cycle started last month",
			ref:      date(2024, time.March, 20),
			expected: date(2024, time.February, 21),
		},
		{
			name:     "on the 21st a new cycle starts today",
			ref:      date(2024, time.March, 21),
			expected: date(2024, time.March, 21),
		},
		{
			name:     "late in the month",
			ref:      date(2024, time.March, 28),
			expected: date(2024, time.March, 21),
		},
		{
			name:     "january rolls into previous year",
			ref:      date(2024, time.January, 5),
			expected: date(2023, time.December, 21),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CycleStart(tt.ref))
		})
	}
}

func TestLookbackWindow(t *testing.T) {
	from, to := LookbackWindow(date(2024, time.March, 5))
	assert.Equal(t, date(2024, time.February, 21), from)
	assert.Equal(t, date(2024, time.March, 31), to)

	// Year boundary.
	from, to = LookbackWindow(date(2024, time.January, 10))
	assert.Equal(t, date(2023, time.December, 21), from)
	assert.Equal(t, date(2024, time.January, 31), to)
}

func TestInWindow(t *testing.T) {
	from, to := date(2024, time.February, 21), date(2024, time.March, 31)

	assert.True(t, InWindow(date(2024, time.February, 21), from, to))
	assert.True(t, InWindow(date(2024, time.March, 31), from, to))
	assert.False(t, InWindow(date(2024, time.February, 20), from, to))
	assert.False(t, InWindow(date(2024, time.April, 1), from, to))

	// Time-of-day must not push a boundary day out of the window.
	assert.True(t, InWindow(time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC), from, to))
}

func TestCycleValue(t *testing.T) {
	// Dates through the 21st report under their own month.
	assert.Equal(t, "03/2024", CycleValue(date(2024, time.March, 5)))
	assert.Equal(t, "03/2024", CycleValue(date(2024, time.March, 21)))
	// Dates after the 21st belong to the next month's report.
	assert.Equal(t, "04/2024", CycleValue(date(2024, time.March, 22)))
	// Year rollover.
	assert.Equal(t, "01/2025", CycleValue(date(2024, time.December, 28)))
}

func TestCycleValuesSpanning(t *testing.T) {
	from, to := LookbackWindow(date(2024, time.March, 5))
	values := CycleValuesSpanning(from, to)
	assert.Equal(t, []string{"02/2024", "03/2024", "04/2024"}, values)

	// Degenerate single-cycle span.
	values = CycleValuesSpanning(date(2024, time.March, 1), date(2024, time.March, 10))
	assert.Equal(t, []string{"03/2024"}, values)
}
