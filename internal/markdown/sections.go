package markdown

import (
	"regexp"
	"strings"
)

// Section levels considered by section lookup and the section map.
const (
	MinSectionLevel = 2
	MaxSectionLevel = 4
)

// Section is a heading together with the body text under it.
type Section struct {
	Title   string
	Level   int
	Line    int
	Content string
}

var (
	headingNumberRe = regexp.MustCompile(`^\d+(\.\d+)*[.)]?\s+`)
	setextRuleRe    = regexp.MustCompile(`^\s*(=+|-+)\s*$`)
)

// Sections returns every level 2-4 heading in document order. Each section's
// content runs up to the next heading of any level.
func Sections(body string) []Section {
	headings := ExtractHeadings(body)
	lines := strings.Split(body, "\n")

	var out []Section
	for i, h := range headings {
		if h.Level < MinSectionLevel || h.Level > MaxSectionLevel {
			continue
		}
		end := len(lines)
		if i+1 < len(headings) {
			end = headings[i+1].Line - 1
		}
		out = append(out, Section{
			Title:   h.Text,
			Level:   h.Level,
			Line:    h.Line,
			Content: sliceLines(lines, h.Line, end),
		})
	}
	return out
}

// SectionMap maps heading title to content for all level 2-4 headings.
// A repeated title keeps the content of its last occurrence.
func SectionMap(body string) map[string]string {
	out := make(map[string]string)
	for _, s := range Sections(body) {
		out[s.Title] = s.Content
	}
	return out
}

// ExtractSection returns the content under the first level 2-4 heading whose
// title matches title, up to the next heading of the same or a higher level.
// Matching is case-insensitive and accepts a heading that starts with title,
// so "Implementation" finds "Implementation Details". Returns "" if absent.
func ExtractSection(body, title string) string {
	want := normalizeTitle(title)
	if want == "" {
		return ""
	}

	headings := ExtractHeadings(body)
	lines := strings.Split(body, "\n")

	for i, h := range headings {
		if h.Level < MinSectionLevel || h.Level > MaxSectionLevel {
			continue
		}
		if !titleMatches(h.Text, want) {
			continue
		}
		end := len(lines)
		for _, next := range headings[i+1:] {
			if next.Level <= h.Level {
				end = next.Line - 1
				break
			}
		}
		return sliceLines(lines, h.Line, end)
	}
	return ""
}

// ExtractFirstSection tries each title in order and returns the first
// non-empty section.
func ExtractFirstSection(body string, titles ...string) string {
	for _, title := range titles {
		if s := ExtractSection(body, title); s != "" {
			return s
		}
	}
	return ""
}

// HasSection reports whether a level 2-4 heading matches title.
func HasSection(body, title string) bool {
	want := normalizeTitle(title)
	for _, h := range ExtractHeadings(body) {
		if h.Level >= MinSectionLevel && h.Level <= MaxSectionLevel && titleMatches(h.Text, want) {
			return true
		}
	}
	return false
}

func titleMatches(heading, want string) bool {
	got := normalizeTitle(heading)
	return got == want || strings.HasPrefix(got, want)
}

func normalizeTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = headingNumberRe.ReplaceAllString(s, "")
	s = strings.TrimRight(s, ": ")
	return strings.Join(strings.Fields(s), " ")
}

// sliceLines returns lines after the heading line (1-indexed headingLine)
// through endLine (1-indexed, inclusive), trimmed.
func sliceLines(lines []string, headingLine, endLine int) string {
	start := headingLine
	if start < len(lines) && setextRuleRe.MatchString(lines[start]) && start > 0 && !strings.HasPrefix(strings.TrimSpace(lines[start-1]), "#") {
		start++
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if start >= endLine {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines[start:endLine], "\n"))
}
