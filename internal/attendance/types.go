// Package attendance holds the attendance domain model and the pure logic
// derived from it: assignment normalization, cycle-window arithmetic,
// attendance-code decoding and the snapshot merge rule.
//
// Nothing in this package touches the browser. Everything here is plain data
// and pure functions so the business rules can be tested without a portal.
package attendance

import (
	"sort"
	"time"
)

// Mode selects which portal workflow an assignment goes through. The two
// workflows are disjoint: WFO uses the regularize calendar popup, WFH uses
// the apply-leave form.
type Mode string

const (
	ModeWFO Mode = "wfo"
	ModeWFH Mode = "wfh"
)

// Span says whether an assignment covers the whole day or one half.
type Span string

const (
	SpanFull       Span = "full"
	SpanFirstHalf  Span = "first_half"
	SpanSecondHalf Span = "second_half"
)

// NormalizeSpan maps free-form span input to one of the three known values.
// Unrecognized or empty input defaults to a full day.
func NormalizeSpan(raw string) Span {
	switch Span(raw) {
	case SpanFirstHalf:
		return SpanFirstHalf
	case SpanSecondHalf:
		return SpanSecondHalf
	default:
		return SpanFull
	}
}

// Category is the closed set of per-half attendance classifications.
type Category string

const (
	CategoryNone    Category = "none"
	CategoryAbsent  Category = "absent"
	CategoryWeekend Category = "weekend"
	CategoryHoliday Category = "holiday"
	CategoryWFO     Category = "wfo"
	CategoryWFH     Category = "wfh"
	CategoryOther   Category = "other"
)

// Assignment is one (date, mode, span) submission request from the caller.
type Assignment struct {
	Date time.Time
	Mode Mode
	Span Span
}

// Source tags which extraction pass produced a history entry.
type Source string

const (
	SourceRegularize  Source = "regularize"
	SourceLeaveStatus Source = "leave_status"
)

// HistoryEntry is the reconciled attendance state for one calendar day.
type HistoryEntry struct {
	FirstHalf  Category `json:"first_half"`
	SecondHalf Category `json:"second_half"`
	Source     Source   `json:"source"`
	// HasAbsent records that the regularize grid showed at least one absent
	// half for this day. Only days with this flag may be overwritten by the
	// leave-status pass.
	HasAbsent bool `json:"has_absent"`
}

// Snapshot is the reconciled per-day attendance map for a lookback window.
// Keys are ISO dates (2006-01-02). The caller owns persistence and diffing.
type Snapshot struct {
	FetchedAt time.Time               `json:"fetched_at"`
	From      time.Time               `json:"from"`
	To        time.Time               `json:"to"`
	Days      map[string]HistoryEntry `json:"days"`
}

// DateKey formats a time as the snapshot map key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SortedDates returns the snapshot's day keys in ascending order.
func (s *Snapshot) SortedDates() []string {
	keys := make([]string, 0, len(s.Days))
	for k := range s.Days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
