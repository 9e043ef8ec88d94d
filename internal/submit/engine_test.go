package submit

import (
	"testing"
	"time"

	"amon/internal/attendance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestFilterAllowedDropsBeforeCycleStart(t *testing.T) {
	// Reference date 2025-07-25: cycle started on the 21st.
	ref := day(2025, time.July, 25)

	var warnings []string
	got, err := FilterAllowed([]attendance.Assignment{
		{Date: day(2025, time.July, 20), Mode: attendance.ModeWFO},
		{Date: day(2025, time.July, 21), Mode: attendance.ModeWFO},
		{Date: day(2025, time.July, 24), Mode: attendance.ModeWFO},
	}, ref, func(msg string) { warnings = append(warnings, msg) })

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-07-21", attendance.DateKey(got[0].Date))
	assert.Equal(t, "2025-07-24", attendance.DateKey(got[1].Date))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "2025-07-20")
}

func TestFilterAllowedEmptyResultIsError(t *testing.T) {
	ref := day(2025, time.July, 25)

	_, err := FilterAllowed([]attendance.Assignment{
		{Date: day(2025, time.June, 30)},
		{Date: day(2025, time.July, 1)},
	}, ref, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025-07-21")
}

func TestFilterAllowedSortsAscending(t *testing.T) {
	ref := day(2025, time.July, 25)

	got, err := FilterAllowed([]attendance.Assignment{
		{Date: day(2025, time.July, 24)},
		{Date: day(2025, time.July, 21)},
		{Date: day(2025, time.July, 23)},
	}, ref, nil)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Date.Before(got[1].Date))
	assert.True(t, got[1].Date.Before(got[2].Date))
}

func TestFilterAllowedNormalizesSpans(t *testing.T) {
	ref := day(2025, time.July, 25)

	got, err := FilterAllowed([]attendance.Assignment{
		{Date: day(2025, time.July, 22), Span: ""},
		{Date: day(2025, time.July, 23), Span: attendance.SpanFirstHalf},
	}, ref, nil)

	require.NoError(t, err)
	assert.Equal(t, attendance.SpanFull, got[0].Span)
	assert.Equal(t, attendance.SpanFirstHalf, got[1].Span)
}

func TestFilterAllowedEarlyCycleReferenceKeepsPriorMonth(t *testing.T) {
	// On the 5th the cycle began on the previous month's 21st.
	ref := day(2025, time.August, 5)

	got, err := FilterAllowed([]attendance.Assignment{
		{Date: day(2025, time.July, 21)},
		{Date: day(2025, time.July, 20)},
	}, ref, nil)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-07-21", attendance.DateKey(got[0].Date))
}

func TestSpanLeaveType(t *testing.T) {
	assert.Equal(t, "PP", SpanLeaveType(attendance.SpanFull))
	assert.Equal(t, "PA", SpanLeaveType(attendance.SpanFirstHalf))
	assert.Equal(t, "AP", SpanLeaveType(attendance.SpanSecondHalf))
}

func TestSpanAvailability(t *testing.T) {
	assert.Equal(t, "0", SpanAvailability(attendance.SpanFull))
	assert.Equal(t, "1", SpanAvailability(attendance.SpanFirstHalf))
	assert.Equal(t, "2", SpanAvailability(attendance.SpanSecondHalf))
}

func TestReporterSurvivesPanickingCallback(t *testing.T) {
	rep := reporter{
		fn:  func(string, Severity, bool) { panic("ui went away") },
		log: zap.NewNop(),
	}
	assert.NotPanics(t, func() {
		rep.emit("hello", SeverityInfo, true)
	})
}
