package techcat

import (
	"regexp"
	"strings"
)

// Categorize returns the category of a technology name using a
// case-insensitive exact lookup. Unknown names return Other.
func Categorize(name string) string {
	if cat, ok := lookup[strings.ToLower(strings.TrimSpace(name))]; ok {
		return cat
	}
	return Other
}

// Categories returns all category names in table order, without Other.
func Categories() []string {
	out := make([]string, 0, len(categoryTable))
	for _, entry := range categoryTable {
		out = append(out, entry.name)
	}
	return out
}

// Extract returns the canonical names of known technologies mentioned in
// text, in pattern-table order, each at most once.
func Extract(text string) []string {
	var found []string
	for _, p := range knownPatterns {
		if p.re.MatchString(text) {
			found = append(found, p.name)
		}
	}
	return found
}

// Canonical maps a raw technology token to its canonical display name when
// it names or matches a known pattern exactly; otherwise the trimmed input
// is returned.
func Canonical(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, p := range knownPatterns {
		if strings.EqualFold(raw, p.name) {
			return p.name
		}
	}
	for _, p := range knownPatterns {
		loc := p.re.FindStringIndex(raw)
		if loc != nil && strings.TrimSpace(raw[:loc[0]]) == "" && strings.TrimSpace(raw[loc[1]:]) == "" {
			return p.name
		}
	}
	return raw
}

// EstimateProficiency classifies the experience level implied by the text
// around every mention of name. Without any keyword hit it returns Beginner.
func EstimateProficiency(text, name string) string {
	windows := contextWindows(text, name)
	for _, level := range proficiencyKeywords {
		for _, w := range windows {
			for _, kw := range level.keywords {
				if strings.Contains(w, kw) {
					return level.level
				}
			}
		}
	}
	return Beginner
}

// contextWindows returns lowercased ±ContextWindow slices around each
// mention. Known technologies are found with the same pattern Extract uses,
// so "Go" never matches inside "good"; other names need word boundaries.
func contextWindows(text, name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	re := patternFor(name)
	if re == nil {
		re = regexp.MustCompile(`(?i)(?:^|\b|\W)` + regexp.QuoteMeta(name) + `(?:\b|\W|$)`)
	}

	var windows []string
	for _, loc := range re.FindAllStringIndex(text, -1) {
		start := max(loc[0]-ContextWindow, 0)
		end := min(loc[1]+ContextWindow, len(text))
		windows = append(windows, strings.ToLower(text[start:end]))
	}
	return windows
}
