// Package parsers implements the content-type parsers (project, blog, idea,
// resume), the registry that maps type tags to parser constructors, content
// type detection, and batch parsing over a content directory.
package parsers

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/markdown"
	"github.com/aidanlsb/quill/internal/slugs"
	"github.com/aidanlsb/quill/internal/techcat"
)

// Origins recorded on Technology.Source.
const (
	SourceMetadata = "metadata"
	SourceContent  = "content"
)

var (
	urlShape   = regexp.MustCompile(`^https?://\S+$`)
	emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Shape and range checks shared by the parsers.
var (
	urlRule   = validation.Match(urlShape).Error("must be an http(s) URL")
	emailRule = validation.Match(emailShape).Error("must be an email address")
	// scoreRule checks zero as well; ozzo's Min treats zero as empty.
	scoreRule = validation.By(func(value any) error {
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("must be a number")
		}
		if v < MinScore || v > MaxScore {
			return fmt.Errorf("must be between %v and %v", MinScore, MaxScore)
		}
		return nil
	})
)

// checkURL validates a non-empty URL and records an error naming field.
func checkURL(rec *content.Extracted, field, value string) {
	if value == "" {
		return
	}
	if err := validation.Validate(value, urlRule); err != nil {
		rec.AddError(fmt.Sprintf("invalid %s %q: %v", field, value, err))
	}
}

// entityTitle returns the metadata title or the first level-1 heading.
func entityTitle(src *content.Source, keys ...string) string {
	if len(keys) == 0 {
		keys = []string{"title"}
	}
	if t := src.Metadata.String(keys...); t != "" {
		return t
	}
	return markdown.FirstHeading(src.Body, 1)
}

// entitySlug prefers an explicit slug, then the title, then the unit name.
func entitySlug(src *content.Source, title string) string {
	if s := src.Metadata.String("slug"); s != "" {
		return slugs.Make(s)
	}
	if title != "" {
		return slugs.Make(title)
	}
	return slugs.FromStem(src.Name())
}

// firstParagraph returns the first prose paragraph of body that is not a
// heading, list, or image line.
func firstParagraph(body string) string {
	var para []string
	for _, line := range markdown.ProseLines(body) {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			if len(para) > 0 {
				return markdown.Clean(strings.Join(para, " "))
			}
		case strings.HasPrefix(trimmed, "#"),
			strings.HasPrefix(trimmed, "!["),
			strings.HasPrefix(trimmed, "- "),
			strings.HasPrefix(trimmed, "* "),
			strings.HasPrefix(trimmed, ">"),
			strings.HasPrefix(trimmed, "|"):
			if len(para) > 0 {
				return markdown.Clean(strings.Join(para, " "))
			}
		default:
			para = append(para, trimmed)
		}
	}
	return markdown.Clean(strings.Join(para, " "))
}

func timePtr(t time.Time, ok bool) *time.Time {
	if !ok {
		return nil
	}
	return &t
}

// addMetadataTechnologies records explicit technology lists, estimating a
// proficiency from the body text around each mention.
func addMetadataTechnologies(rec *content.Extracted, src *content.Source, keys ...string) {
	for _, raw := range src.Metadata.StringList(keys...) {
		for _, name := range markdown.SplitInline(raw) {
			name = techcat.Canonical(name)
			rec.AddTechnology(content.Technology{
				Name:        name,
				Category:    techcat.Categorize(name),
				Source:      SourceMetadata,
				Proficiency: techcat.EstimateProficiency(src.Body, name),
			})
		}
	}
}

// addContentTechnologies pattern-matches known technologies in text.
func addContentTechnologies(rec *content.Extracted, text, context string) []string {
	var added []string
	for _, name := range techcat.Extract(text) {
		ok := rec.AddTechnology(content.Technology{
			Name:        name,
			Category:    techcat.Categorize(name),
			Source:      SourceContent,
			Proficiency: techcat.EstimateProficiency(context, name),
		})
		if ok {
			added = append(added, name)
		}
	}
	return added
}

// addBodyImages records markdown images from body using vocab.
func addBodyImages(rec *content.Extracted, body string, vocab []markdown.ImageCategory) {
	for _, img := range markdown.ExtractImages(body, vocab) {
		rec.AddImage(content.Image{
			URL:     img.URL,
			AltText: img.Alt,
			Caption: img.Alt,
			Type:    img.Type,
		})
	}
}

// keywordHits counts how many keywords occur in lowered as whole words.
func keywordHits(lowered string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if containsWord(lowered, kw) {
			n++
		}
	}
	return n
}

// containsWord reports whether phrase occurs in lowered bounded by non-letters.
func containsWord(lowered, phrase string) bool {
	for offset := 0; offset < len(lowered); {
		idx := strings.Index(lowered[offset:], phrase)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(phrase)
		if (start == 0 || !isWordByte(lowered[start-1])) && (end == len(lowered) || !isWordByte(lowered[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
