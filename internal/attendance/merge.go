package attendance

// Merge reconciles the two extraction passes into one per-day map.
//
// The regularize grid is the primary source. The leave-status report exists
// only to cover the case where the grid shows a half as absent while an
// approved leave application actually covers it. Accordingly, for each day:
//
//   - days the regularize pass never flagged as having an absent half are
//     returned unchanged, even when leave-status has data for them;
//   - for flagged days, each half is replaced independently, and only when
//     that half is CategoryAbsent and leave-status recorded a value.
//
// Leave-status days with no regularize counterpart are dropped: without grid
// evidence there is nothing to correct, and inventing entries would let a
// stale leave application mask reality.
func Merge(regularize, leaveStatus map[string]HistoryEntry) map[string]HistoryEntry {
	merged := make(map[string]HistoryEntry, len(regularize))
	for key, entry := range regularize {
		if !entry.HasAbsent {
			merged[key] = entry
			continue
		}
		ls, ok := leaveStatus[key]
		if !ok {
			merged[key] = entry
			continue
		}
		if entry.FirstHalf == CategoryAbsent && ls.FirstHalf != CategoryNone {
			entry.FirstHalf = ls.FirstHalf
			entry.Source = SourceLeaveStatus
		}
		if entry.SecondHalf == CategoryAbsent && ls.SecondHalf != CategoryNone {
			entry.SecondHalf = ls.SecondHalf
			entry.Source = SourceLeaveStatus
		}
		merged[key] = entry
	}
	return merged
}
