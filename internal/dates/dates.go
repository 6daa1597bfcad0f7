// Package dates provides canonical date and date-range parsing helpers.
//
// Content files write dates in many shapes (ISO, US slash, "March 2021",
// a bare year). Every parser goes through this package so the accepted forms
// stay consistent. Parsing never fails loudly: callers get ok=false and decide
// whether that is a validation problem.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical YYYY-MM-DD layout.
const DateLayout = "2006-01-02"

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	ordinalRe = regexp.MustCompile(`(\d{1,2})(st|nd|rd|th)\b`)
	yearRe    = regexp.MustCompile(`^\d{4}$`)
)

// layouts are tried in order; the first successful match wins.
var layouts = []string{
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January, 2006",
	"January 2006",
	"Jan 2006",
	"2006-01",
	"01/2006",
	"1/2006",
}

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !isoDateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Parse parses a date in any of the accepted textual forms.
func Parse(s string) (time.Time, bool) {
	s = normalize(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if yearRe.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}

	// RFC3339 and friends, but never guessing between day-first and month-first.
	if t, err := dateparse.ParseStrict(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FromValue converts a decoded YAML value (time.Time, string, or integer year)
// into a date.
func FromValue(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val, true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return *val, true
	case string:
		return Parse(val)
	case int:
		return Parse(strconv.Itoa(val))
	case int64:
		return Parse(strconv.FormatInt(val, 10))
	case float64:
		return Parse(strconv.Itoa(int(val)))
	}
	return time.Time{}, false
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,;")
	s = strings.ReplaceAll(s, ".", "")
	s = ordinalRe.ReplaceAllString(s, "$1")
	s = strings.Join(strings.Fields(s), " ")
	if strings.HasPrefix(strings.ToLower(s), "sept ") {
		s = "Sep " + s[5:]
	}
	return s
}
