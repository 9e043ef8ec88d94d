package cmd

import (
	"testing"

	"amon/internal/attendance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := parseMode("WFO")
	require.NoError(t, err)
	assert.Equal(t, attendance.ModeWFO, m)

	m, err = parseMode("wfh")
	require.NoError(t, err)
	assert.Equal(t, attendance.ModeWFH, m)

	_, err = parseMode("office")
	assert.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments(attendance.ModeWFO, []string{
		"2025-07-21",
		"2025-07-22:first_half",
		"2025-07-23:second_half",
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, attendance.SpanFull, got[0].Span)
	assert.Equal(t, attendance.SpanFirstHalf, got[1].Span)
	assert.Equal(t, attendance.SpanSecondHalf, got[2].Span)
	assert.Equal(t, attendance.ModeWFO, got[0].Mode)
	assert.Equal(t, 21, got[0].Date.Day())
}

func TestParseAssignmentsBadDate(t *testing.T) {
	_, err := parseAssignments(attendance.ModeWFH, []string{"21-07-2025"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2006-01-02")
}

func TestEntryLabel(t *testing.T) {
	assert.Equal(t, "untracked", entryLabel(nil))
	assert.Equal(t, "wfo", entryLabel(&attendance.HistoryEntry{
		FirstHalf: attendance.CategoryWFO, SecondHalf: attendance.CategoryWFO,
	}))
	assert.Equal(t, "absent/wfh", entryLabel(&attendance.HistoryEntry{
		FirstHalf: attendance.CategoryAbsent, SecondHalf: attendance.CategoryWFH,
	}))
}
