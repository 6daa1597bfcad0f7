package markdown

import (
	"regexp"
	"strings"
)

var (
	listItemRe     = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+(.+?)\s*$`)
	numberedItemRe = regexp.MustCompile(`^\s*\d+[.)]\s+(.+?)\s*$`)
	checkboxRe     = regexp.MustCompile(`^\[[ xX]\]\s*`)
)

// ListItems returns the text of each bullet or numbered list item in content,
// skipping fenced code. Task-list checkboxes are dropped.
func ListItems(content string) []string {
	var items []string
	for _, line := range ProseLines(content) {
		m := listItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := checkboxRe.ReplaceAllString(m[1], "")
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// NumberedItems returns only numbered list items ("1. ...", "2) ...").
func NumberedItems(content string) []string {
	var items []string
	for _, line := range ProseLines(content) {
		if m := numberedItemRe.FindStringSubmatch(line); m != nil {
			items = append(items, m[1])
		}
	}
	return items
}

// SplitInline splits "a, b | c; d" style inline lists.
func SplitInline(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == ';' || r == '•'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(StripFormatting(f))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
