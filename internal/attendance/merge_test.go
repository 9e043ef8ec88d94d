package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeReplacesOnlyAbsentHalves(t *testing.T) {
	reg := map[string]HistoryEntry{
		"2024-03-05": {FirstHalf: CategoryAbsent, SecondHalf: CategoryWFO, Source: SourceRegularize, HasAbsent: true},
	}
	ls := map[string]HistoryEntry{
		"2024-03-05": {FirstHalf: CategoryWFH, SecondHalf: CategoryWFH, Source: SourceLeaveStatus},
	}

	merged := Merge(reg, ls)

	entry := merged["2024-03-05"]
	assert.Equal(t, CategoryWFH, entry.FirstHalf, "absent half is replaced")
	assert.Equal(t, CategoryWFO, entry.SecondHalf, "non-absent half is kept")
	assert.Equal(t, SourceLeaveStatus, entry.Source)
}

func TestMergeNeverOverwritesWithoutAbsent(t *testing.T) {
	reg := map[string]HistoryEntry{
		"2024-03-06": {FirstHalf: CategoryWFO, SecondHalf: CategoryWFO, Source: SourceRegularize},
	}
	ls := map[string]HistoryEntry{
		"2024-03-06": {FirstHalf: CategoryWFH, SecondHalf: CategoryWFH, Source: SourceLeaveStatus},
	}

	merged := Merge(reg, ls)

	entry := merged["2024-03-06"]
	assert.Equal(t, CategoryWFO, entry.FirstHalf)
	assert.Equal(t, CategoryWFO, entry.SecondHalf)
	assert.Equal(t, SourceRegularize, entry.Source)
}

func TestMergeBothHalvesAbsent(t *testing.T) {
	reg := map[string]HistoryEntry{
		"2024-03-07": {FirstHalf: CategoryAbsent, SecondHalf: CategoryAbsent, Source: SourceRegularize, HasAbsent: true},
	}
	ls := map[string]HistoryEntry{
		"2024-03-07": {FirstHalf: CategoryOther, SecondHalf: CategoryOther, Source: SourceLeaveStatus},
	}

	merged := Merge(reg, ls)

	entry := merged["2024-03-07"]
	assert.Equal(t, CategoryOther, entry.FirstHalf)
	assert.Equal(t, CategoryOther, entry.SecondHalf)
}

func TestMergeAbsentHalfWithoutLeaveData(t *testing.T) {
	reg := map[string]HistoryEntry{
		"2024-03-08": {FirstHalf: CategoryAbsent, SecondHalf: CategoryWFO, Source: SourceRegularize, HasAbsent: true},
	}

	merged := Merge(reg, map[string]HistoryEntry{})

	entry := merged["2024-03-08"]
	assert.Equal(t, CategoryAbsent, entry.FirstHalf, "nothing to replace with")
	assert.Equal(t, SourceRegularize, entry.Source)
}

func TestMergeLeaveOnlyDaysAreDropped(t *testing.T) {
	ls := map[string]HistoryEntry{
		"2024-03-09": {FirstHalf: CategoryWFH, SecondHalf: CategoryWFH, Source: SourceLeaveStatus},
	}

	merged := Merge(map[string]HistoryEntry{}, ls)

	assert.Empty(t, merged)
}

func TestMergeLeaveHalfRecordedAsNone(t *testing.T) {
	reg := map[string]HistoryEntry{
		"2024-03-10": {FirstHalf: CategoryAbsent, SecondHalf: CategoryAbsent, Source: SourceRegularize, HasAbsent: true},
	}
	ls := map[string]HistoryEntry{
		"2024-03-10": {FirstHalf: CategoryWFH, SecondHalf: CategoryNone, Source: SourceLeaveStatus},
	}

	merged := Merge(reg, ls)

	entry := merged["2024-03-10"]
	assert.Equal(t, CategoryWFH, entry.FirstHalf)
	assert.Equal(t, CategoryAbsent, entry.SecondHalf, "a none half never replaces")
}
