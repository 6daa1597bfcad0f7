// Package slugs provides the canonical slug helper used for titles, series
// names, and file stems.
//
// Slugs are built in two passes: a conservative strip of anything that is not a
// word character, whitespace, or hyphen, followed by gosimple/slug for
// transliteration and hyphen collapsing. The result always matches
// ^[a-z0-9]+(-[a-z0-9]+)*$ or is the literal Fallback.
package slugs

import (
	"regexp"
	"strings"

	goslug "github.com/gosimple/slug"
)

// Fallback is returned when the input has no sluggable characters.
const Fallback = "untitled"

var (
	nonWordRe   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]+`)
	separatorRe = regexp.MustCompile(`[\s_-]+`)
)

// Make converts text to a URL-friendly slug.
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonWordRe.ReplaceAllString(s, "")
	s = separatorRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback
	}

	// gosimple keeps underscores; they were already folded into hyphens above.
	s = goslug.Make(s)
	s = strings.Trim(strings.ReplaceAll(s, "_", "-"), "-")
	if s == "" {
		return Fallback
	}
	return s
}

// FromStem slugifies a file name, dropping a trailing ".md".
func FromStem(name string) string {
	return Make(strings.TrimSuffix(name, ".md"))
}
