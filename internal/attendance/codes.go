package attendance

import "strings"

// codeAlphabet is the set of letters a grid-cell attendance code may use.
// Tokens containing anything outside this set are not codes (they are
// usually day numbers, names or stray markup text).
const codeAlphabet = "ACGHLOPSW"

// letterCategory maps one code letter to a half-day category. Letters in
// the alphabet without a dedicated category (casual leave, sick leave and
// the portal's miscellaneous codes) fall through to CategoryOther.
func letterCategory(ch byte) Category {
	switch ch {
	case 'A':
		return CategoryAbsent
	case 'W':
		return CategoryWeekend
	case 'H':
		return CategoryHoliday
	case 'P':
		return CategoryWFO
	case 'G':
		return CategoryWFH
	default:
		return CategoryOther
	}
}

// IsCodeToken reports whether token looks like a grid attendance code:
// one or two letters, all drawn from the code alphabet.
func IsCodeToken(token string) bool {
	if len(token) == 0 || len(token) > 2 {
		return false
	}
	upper := strings.ToUpper(token)
	for i := 0; i < len(upper); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(upper[i])) {
			return false
		}
	}
	return true
}

// NormalizeCode uppercases a code token and doubles single letters, so "P"
// becomes the pseudo full-day code "PP".
func NormalizeCode(token string) string {
	code := strings.ToUpper(strings.TrimSpace(token))
	if len(code) == 1 {
		code += code
	}
	return code
}

// DecodeCode maps a (normalized) 2-letter attendance code to per-half
// categories: the first character is the first half, the second the second.
func DecodeCode(code string) (first, second Category) {
	code = NormalizeCode(code)
	if len(code) < 2 {
		return CategoryNone, CategoryNone
	}
	return letterCategory(code[0]), letterCategory(code[1])
}

// leaveTypePhrases maps known "Leave Type :" phrases from cell titles to
// code letters. Ordered, because "work from home" must win over "home" style
// partial collisions and the first match is taken.
var leaveTypePhrases = []struct {
	phrase string
	letter byte
}{
	{"work from home", 'G'},
	{"weekly off", 'W'},
	{"optional leave", 'H'},
	{"present", 'P'},
	{"absent", 'A'},
}

// halfDayPhrases are the category names that can appear in a "1/2"-qualified
// leave type. Which half each applies to is decided by the order the names
// appear in the title text.
var halfDayPhrases = []struct {
	phrase string
	letter byte
}{
	{"absent", 'A'},
	{"casual", 'C'},
	{"sick", 'S'},
	{"work from home", 'G'},
	{"present", 'P'},
}

// CodeFromLeaveTypeText recovers a 2-letter attendance code from the
// "Leave Type : ..." text of a grid cell's title attribute. Returns the
// empty string when no known phrase matches.
//
// Titles containing "1/2" describe a split day: two of the known category
// names appear and the one occurring earlier in the string covers the first
// half. For whole-day titles the first matching phrase covers both halves.
func CodeFromLeaveTypeText(text string) string {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "1/2") {
		if code := splitDayCode(lower); code != "" {
			return code
		}
	}
	for _, lt := range leaveTypePhrases {
		if strings.Contains(lower, lt.phrase) {
			return string([]byte{lt.letter, lt.letter})
		}
	}
	return ""
}

// splitDayCode resolves a "1/2"-qualified leave type by locating the two
// earliest known category names in the string; their textual order decides
// the half each one covers.
func splitDayCode(lower string) string {
	type hit struct {
		pos    int
		letter byte
	}
	var hits []hit
	for _, h := range halfDayPhrases {
		if pos := strings.Index(lower, h.phrase); pos >= 0 {
			hits = append(hits, hit{pos: pos, letter: h.letter})
		}
	}
	if len(hits) < 2 {
		return ""
	}
	// Smallest two positions win; a simple scan keeps this allocation-free.
	first, second := hits[0], hits[1]
	if second.pos < first.pos {
		first, second = second, first
	}
	for _, h := range hits[2:] {
		switch {
		case h.pos < first.pos:
			first, second = h, first
		case h.pos < second.pos:
			second = h
		}
	}
	return string([]byte{first.letter, second.letter})
}

// LeaveStatusCategory maps a leave-status report's leave-type label to a
// category by substring match. Unknown labels classify as CategoryOther so
// an approved-but-unrecognized leave still counts as covered.
func LeaveStatusCategory(label string) Category {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "work from home"):
		return CategoryWFH
	case strings.Contains(lower, "present"):
		return CategoryWFO
	case strings.Contains(lower, "weekly off"):
		return CategoryWeekend
	case strings.Contains(lower, "holiday"):
		return CategoryHoliday
	case strings.Contains(lower, "absent"):
		return CategoryAbsent
	default:
		return CategoryOther
	}
}
