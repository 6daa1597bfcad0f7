package dates

import (
	"strings"
	"time"
)

// Range is a parsed date range. End is nil when the range is open-ended or the
// text held a single date.
type Range struct {
	Start   *time.Time
	End     *time.Time
	Ongoing bool
}

// rangeSeparators are tried in order. The bare hyphen is last because ISO
// dates contain hyphens themselves.
var rangeSeparators = []string{" - ", "–", "—", " to ", "-"}

var openEndedTokens = map[string]bool{
	"now":     true,
	"current": true,
	"present": true,
	"ongoing": true,
}

// IsOpenEnded reports whether s is one of the tokens that mark an open end.
func IsOpenEnded(s string) bool {
	return openEndedTokens[strings.ToLower(strings.TrimSpace(strings.Trim(s, ".")))]
}

// ParseRange parses text like "Jan 2020 - Dec 2021", "2019 – present", or
// "2020-2021". ok is false when no start date could be found.
func ParseRange(s string) (Range, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, false
	}

	lower := strings.ToLower(s)
	for _, sep := range rangeSeparators {
		if sep == "-" {
			if r, ok := splitOnHyphen(s); ok {
				return r, true
			}
			continue
		}
		idx := strings.Index(lower, sep)
		if idx < 0 {
			continue
		}
		if r, ok := buildRange(s[:idx], s[idx+len(sep):]); ok {
			return r, true
		}
	}

	if t, ok := Parse(s); ok {
		return Range{Start: &t}, true
	}
	return Range{}, false
}

// splitOnHyphen tries every hyphen position and keeps the first split where
// both sides make sense, so "2020-01-01-2021-06-30" still parses.
func splitOnHyphen(s string) (Range, bool) {
	if _, ok := Parse(s); ok {
		return Range{}, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}
		left, right := s[:i], s[i+1:]
		if _, ok := Parse(left); !ok {
			continue
		}
		if _, ok := Parse(right); ok || IsOpenEnded(right) {
			return buildRange(left, right)
		}
	}
	return Range{}, false
}

func buildRange(left, right string) (Range, bool) {
	start, ok := Parse(left)
	if !ok {
		return Range{}, false
	}
	r := Range{Start: &start}
	if IsOpenEnded(right) {
		r.Ongoing = true
		return r, true
	}
	if end, ok := Parse(right); ok {
		r.End = &end
	}
	return r, true
}
