package attendance

import "time"

// cycleDay is the day-of-month on which the portal's attendance cycle rolls
// over. A cycle runs from the 21st of one month through the 20th of the next.
const cycleDay = 21

// CycleStart returns the start of the attendance cycle containing ref: the
// 21st of ref's month when ref is on or past the 21st, otherwise the 21st of
// the previous month. Assignments dated before this boundary are rejected by
// the portal, so the engine drops them up front.
func CycleStart(ref time.Time) time.Time {
	y, m, d := ref.Date()
	if d >= cycleDay {
		return time.Date(y, m, cycleDay, 0, 0, 0, 0, ref.Location())
	}
	return time.Date(y, m-1, cycleDay, 0, 0, 0, 0, ref.Location())
}

// LookbackWindow returns the inclusive range the history collector covers:
// from the 21st of the month prior to ref's month through the last day of
// ref's month. time.Date normalizes out-of-range values, which also covers
// the (theoretical) case of a prior month shorter than the cycle day.
func LookbackWindow(ref time.Time) (from, to time.Time) {
	y, m, _ := ref.Date()
	from = time.Date(y, m-1, cycleDay, 0, 0, 0, 0, ref.Location())
	to = time.Date(y, m+1, 0, 0, 0, 0, 0, ref.Location())
	return from, to
}

// InWindow reports whether d falls inside [from, to] by calendar day.
func InWindow(d, from, to time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return !day.Before(from) && !day.After(to)
}

// CycleValue returns the regularize screen's month-dropdown value for a
// date. The portal labels each cycle by the month it ends in, so a date
// after the 21st belongs to the next calendar month's report.
func CycleValue(d time.Time) string {
	y, m, day := d.Date()
	if day > cycleDay {
		m++
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, d.Location()).Format("01/2006")
}

// CycleValuesSpanning returns the distinct cycle dropdown values needed to
// cover [from, to], in chronological order.
func CycleValuesSpanning(from, to time.Time) []string {
	var values []string
	seen := make(map[string]bool)
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	add(CycleValue(from))
	// Step through month starts between from and to; each month boundary can
	// introduce at most one new cycle label.
	cursor := time.Date(from.Year(), from.Month()+1, 1, 0, 0, 0, 0, from.Location())
	for !cursor.After(to) {
		add(CycleValue(cursor))
		cursor = cursor.AddDate(0, 1, 0)
	}
	add(CycleValue(to))
	return values
}
