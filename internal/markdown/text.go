package markdown

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	emphasisRe   = regexp.MustCompile(`(\*\*|__|\*|~~)`)
	underscoreRe = regexp.MustCompile(`(^|\s)_([^_]+)_($|\s|[.,;:!?])`)
	codeTickRe   = regexp.MustCompile("`+")
	headingRe    = regexp.MustCompile(`^\s{0,3}#{1,6}(\s|$)`)
	hashtagRe    = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_-]*)`)
	sentenceRe   = regexp.MustCompile(`[.!?]+`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
)

// Clean normalizes text to NFKC, removes markdown formatting, and collapses
// whitespace into single spaces.
func Clean(s string) string {
	s = norm.NFKC.String(s)
	s = StripFormatting(s)
	return strings.Join(strings.Fields(s), " ")
}

// StripFormatting removes inline markdown markup, keeping link and image text.
func StripFormatting(s string) string {
	s = imageRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = emphasisRe.ReplaceAllString(s, "")
	s = underscoreRe.ReplaceAllString(s, "$1$2$3")
	s = codeTickRe.ReplaceAllString(s, "")
	return s
}

// StripHeadings drops ATX heading lines from content.
func StripHeadings(content string) string {
	lines := strings.Split(content, "\n")
	out := lines[:0:0]
	for _, line := range lines {
		if headingRe.MatchString(line) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// PlainText returns the prose of a markdown body: fenced code and headings
// removed, formatting stripped, whitespace collapsed.
func PlainText(content string) string {
	prose := strings.Join(ProseLines(content), "\n")
	return Clean(StripHeadings(prose))
}

// Words splits the plain text of content into words.
func Words(content string) []string {
	return strings.Fields(PlainText(content))
}

// WordCount counts words in the plain text of content.
func WordCount(content string) int {
	return len(Words(content))
}

// Sentences splits plain text into non-empty sentences.
func Sentences(plain string) []string {
	parts := sentenceRe.Split(plain, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Hashtags returns #tag tokens from prose lines (headings and code excluded),
// lowercased and deduplicated in first-seen order.
func Hashtags(content string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, line := range ProseLines(content) {
		if headingRe.MatchString(line) {
			continue
		}
		line = removeInlineCode(line)
		for _, m := range hashtagRe.FindAllStringSubmatch(line, -1) {
			tag := strings.ToLower(m[1])
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
