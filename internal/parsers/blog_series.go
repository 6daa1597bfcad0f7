package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/markdown"
	"github.com/aidanlsb/quill/internal/slugs"
)

// Series places a post within a named sequence. The series itself is an
// unresolved reference; the index links posts by slug.
type Series struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	PartNumber  int    `json:"part_number,omitempty"`
	Description string `json:"description,omitempty"`
}

var (
	episodeFolderRe = regexp.MustCompile(`(?i)^episode\.(.+)$`)
	legacyEpisodeRe = regexp.MustCompile(`(?i)^episode\.(.+)\.(\d+)$`)
	digitsRe        = regexp.MustCompile(`\d+`)
)

// bodySeriesMatcher holds in-body series phrases in priority order.
var bodySeriesMatcher = []struct {
	re        *regexp.Regexp
	partGroup int
	nameGroup int
}{
	{regexp.MustCompile(`(?i)\bpart\s+(\d+)\s+of\s+(?:the\s+|my\s+|our\s+|a\s+)?["“]?([A-Za-z][^"”\n.,:;]*?)["”]?\s+series\b`), 1, 2},
	{regexp.MustCompile(`(?i)\bpart\s+(\d+):\s*(?:the\s+)?([A-Za-z][^\n.,:;]*?)\s+series\b`), 1, 2},
	{regexp.MustCompile(`\b((?:[A-Z][\w+#-]*\s+){0,3}[A-Z][\w+#-]*)\s+[Ss]eries,?\s*[-:]?\s*[Pp]art\s+(\d+)\b`), 2, 1},
	{regexp.MustCompile(`(?i)\bpart\s+(\d+)\s+of\s+["“]([^"”\n]+)["”]`), 1, 2},
}

// DetectSeries finds series membership, checking in order the
// "episode.<series>" folder prefix, the legacy "episode.<series>.<part>.md"
// file name, an explicit series field, and in-body phrases.
func DetectSeries(src *content.Source) *Series {
	meta := src.Metadata

	if m := episodeFolderRe.FindStringSubmatch(unitDirName(src)); m != nil {
		name := m[1]
		part, ok := meta.Int("episode", "part", "part_number")
		if !ok {
			part = firstNumber(src.Stem())
		}
		if lm := legacyEpisodeRe.FindStringSubmatch(unitDirName(src)); lm != nil {
			name = lm[1]
			if !ok {
				part, _ = strconv.Atoi(lm[2])
			}
		}
		return newSeries(humanize(name), part, meta.String("series_description"))
	}

	if m := legacyEpisodeRe.FindStringSubmatch(src.Stem()); m != nil {
		part, _ := strconv.Atoi(m[2])
		return newSeries(humanize(m[1]), part, meta.String("series_description"))
	}

	if s := seriesFromMetadata(meta); s != nil {
		return s
	}

	plain := markdown.PlainText(src.Body)
	for _, matcher := range bodySeriesMatcher {
		m := matcher.re.FindStringSubmatch(plain)
		if m == nil {
			continue
		}
		part, _ := strconv.Atoi(m[matcher.partGroup])
		return newSeries(strings.TrimSpace(m[matcher.nameGroup]), part, "")
	}
	return nil
}

func seriesFromMetadata(meta content.Metadata) *Series {
	v, ok := meta.Lookup("series")
	if !ok {
		return nil
	}
	part, _ := meta.Int("series_part", "part", "episode", "part_number")
	switch val := v.(type) {
	case string:
		return newSeries(strings.TrimSpace(val), part, meta.String("series_description"))
	case map[string]any:
		sm := content.Metadata(val)
		name := sm.String("name", "title")
		if name == "" {
			return nil
		}
		if p, ok := sm.Int("part", "part_number", "episode", "number"); ok {
			part = p
		}
		s := newSeries(name, part, sm.String("description"))
		if slug := sm.String("slug"); slug != "" {
			s.Slug = slugs.Make(slug)
		}
		return s
	}
	return nil
}

func newSeries(name string, part int, description string) *Series {
	if part < 0 {
		part = 0
	}
	return &Series{Name: name, Slug: slugs.Make(name), PartNumber: part, Description: description}
}

// humanize turns "my-great_series" into "My Great Series".
func humanize(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(s)
	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

func firstNumber(s string) int {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}
