// Package history rebuilds per-day attendance state from the portal's two
// overlapping reports: the regularize attendance grid and the leave-status
// table. Both are loosely structured server-rendered HTML, so extraction is
// heuristic by necessity: every parse step degrades gracefully and an
// unreadable cell or row is skipped, never fatal.
//
// The parsing itself is pure: the collector extracts raw cell/row data from
// the live pages and hands it to these functions, which makes the
// heuristics and the merge precedence testable without a browser.
package history

import (
	"strings"
	"time"

	"amon/internal/attendance"
)

// GridCell is one attendance-grid cell as extracted from the page.
type GridCell struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

// LeaveRow is one leave-status table row's column texts.
type LeaveRow []string

// Leave-status report column positions. Rows shorter than minLeaveColumns
// are summary or malformed rows and are skipped.
const (
	minLeaveColumns  = 10
	colLeaveType     = 1
	colLeaveFromDate = 4
	colLeaveToDate   = 5
)

// dateLayouts are the direct formats a cell or column date may use.
var dateLayouts = []string{
	"02-Jan-2006",
	"2-Jan-2006",
	"02/01/2006",
	"2/1/2006",
	"02 Jan 2006",
	"2 Jan 2006",
}

// parseDate tries every known layout against a trimmed candidate.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// scanDateTokens looks for a 3-token date substring ("21 Mar 2024" or a
// delimited equivalent) anywhere in a line.
func scanDateTokens(line string) (time.Time, bool) {
	tokens := strings.Fields(line)
	for i := 0; i+3 <= len(tokens); i++ {
		candidate := strings.Join(tokens[i:i+3], " ")
		if t, ok := parseDate(candidate); ok {
			return t, true
		}
	}
	// Single delimited token ("21-Mar-2024") also counts.
	for _, tok := range tokens {
		if t, ok := parseDate(tok); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// cellDate recovers the calendar date of a grid cell: first from a
// "Date :" marker in the title attribute, then from the visible text's
// non-empty lines.
func cellDate(cell GridCell) (time.Time, bool) {
	if idx := strings.Index(cell.Title, "Date :"); idx >= 0 {
		rest := cell.Title[idx+len("Date :"):]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		if t, ok := scanDateTokens(rest); ok {
			return t, true
		}
	}
	for _, line := range cellLines(cell.Text) {
		if t, ok := parseDate(line); ok {
			return t, true
		}
		if t, ok := scanDateTokens(line); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// cellCode recovers the cell's 2-letter attendance code: first any line
// token that looks like a code, then the title's "Leave Type :" phrase.
func cellCode(cell GridCell) (string, bool) {
	for _, line := range cellLines(cell.Text) {
		for _, tok := range strings.Fields(line) {
			if attendance.IsCodeToken(tok) {
				return attendance.NormalizeCode(tok), true
			}
		}
	}
	if idx := strings.Index(cell.Title, "Leave Type :"); idx >= 0 {
		if code := attendance.CodeFromLeaveTypeText(cell.Title[idx:]); code != "" {
			return code, true
		}
	}
	return "", false
}

// cellLines splits cell text into trimmed non-empty lines.
func cellLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParseRegularizeCells converts one cycle's grid cells into per-day
// entries. Cells without a recoverable date and code, and days outside
// [from, to], are discarded.
func ParseRegularizeCells(cells []GridCell, from, to time.Time) map[string]attendance.HistoryEntry {
	entries := make(map[string]attendance.HistoryEntry)
	for _, cell := range cells {
		day, ok := cellDate(cell)
		if !ok {
			continue
		}
		if !attendance.InWindow(day, from, to) {
			continue
		}
		code, ok := cellCode(cell)
		if !ok {
			continue
		}
		first, second := attendance.DecodeCode(code)
		entries[attendance.DateKey(day)] = attendance.HistoryEntry{
			FirstHalf:  first,
			SecondHalf: second,
			Source:     attendance.SourceRegularize,
			HasAbsent:  first == attendance.CategoryAbsent || second == attendance.CategoryAbsent,
		}
	}
	return entries
}

// ParseLeaveRows converts the leave-status table into per-day entries. The
// first row is the header. Each usable row stamps every day of its
// inclusive from/to range, clipped to [from, to], with its category for
// both halves.
func ParseLeaveRows(rows []LeaveRow, from, to time.Time) map[string]attendance.HistoryEntry {
	entries := make(map[string]attendance.HistoryEntry)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < minLeaveColumns {
			continue
		}
		label := strings.TrimSpace(row[colLeaveType])
		if label == "" {
			continue
		}
		start, okFrom := parseDate(row[colLeaveFromDate])
		end, okTo := parseDate(row[colLeaveToDate])
		if !okFrom || !okTo || end.Before(start) {
			continue
		}
		category := attendance.LeaveStatusCategory(label)

		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if !attendance.InWindow(day, from, to) {
				continue
			}
			entries[attendance.DateKey(day)] = attendance.HistoryEntry{
				FirstHalf:  category,
				SecondHalf: category,
				Source:     attendance.SourceLeaveStatus,
			}
		}
	}
	return entries
}

// SampleCells returns up to n (text, title) pairs for zero-yield
// diagnostics. The regularize pass is heuristic and expected to mis-parse
// new portal markup occasionally; the samples make the log actionable.
func SampleCells(cells []GridCell, n int) []GridCell {
	samples := make([]GridCell, 0, n)
	for _, cell := range cells {
		if strings.TrimSpace(cell.Text) == "" && strings.TrimSpace(cell.Title) == "" {
			continue
		}
		samples = append(samples, cell)
		if len(samples) == n {
			break
		}
	}
	return samples
}
