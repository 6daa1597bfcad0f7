package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/parsers"
	"github.com/aidanlsb/quill/internal/ui"
)

// recordSummary is the compact form of a record used by batch output.
type recordSummary struct {
	Path     string   `json:"path"`
	Type     string   `json:"content_type"`
	Title    string   `json:"title,omitempty"`
	Slug     string   `json:"slug,omitempty"`
	Language string   `json:"language"`
	Quality  float64  `json:"extraction_quality"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"validation_errors,omitempty"`
	Warnings []string `json:"validation_warnings,omitempty"`
}

type failureSummary struct {
	Path  string `json:"path"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

func summarize(relPath string, rec *content.Extracted) recordSummary {
	s := recordSummary{
		Path:     relPath,
		Type:     string(rec.ContentType),
		Language: rec.Language,
		Quality:  rec.ExtractionQuality,
		Valid:    rec.Valid(),
		Errors:   rec.ValidationErrors,
		Warnings: rec.ValidationWarnings,
	}
	if rec.MainEntity != nil {
		s.Title, s.Slug = rec.MainEntity.Identity()
	}
	return s
}

func summarizeFailures(failures []parsers.Failure) []failureSummary {
	out := make([]failureSummary, 0, len(failures))
	for _, f := range failures {
		out = append(out, failureSummary{Path: f.RelPath, Error: failureMessage(f.Err), Code: errorCode(f.Err)})
	}
	return out
}

// printRecord writes a human-readable view of one record.
func printRecord(relPath string, rec *content.Extracted) {
	s := summarize(relPath, rec)
	title := s.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Printf("%s %s\n", ui.AccentBold.Render(title), ui.Hint("("+s.Type+")"))

	field := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Printf("  %s %s\n", ui.Muted.Render(fmt.Sprintf("%-12s", name)), value)
	}
	field("path", ui.FilePath(relPath))
	field("slug", s.Slug)
	field("language", s.Language)
	field("quality", ui.Percent(s.Quality))
	field("hash", shortHash(rec.ContentHash))

	names := make([]string, 0, len(rec.Technologies))
	for _, t := range rec.Technologies {
		names = append(names, t.Name)
	}
	field("technologies", strings.Join(names, ", "))
	field("tags", strings.Join(rec.Tags, ", "))
	field("categories", strings.Join(rec.Categories, ", "))
	if n := len(rec.Images); n > 0 {
		field("images", ui.Count(n, "image"))
	}
	if n := len(rec.Translations); n > 0 {
		langs := make([]string, 0, n)
		for _, tr := range rec.Translations {
			langs = append(langs, tr.Language)
		}
		field("translations", strings.Join(langs, ", "))
	}

	for _, msg := range rec.ValidationErrors {
		fmt.Println("  " + ui.Error(msg))
	}
	for _, msg := range rec.ValidationWarnings {
		fmt.Println("  " + ui.Warning(msg))
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func issues(rec *content.Extracted) string {
	e, w := len(rec.ValidationErrors), len(rec.ValidationWarnings)
	if e == 0 && w == 0 {
		return ui.SymbolSuccess
	}
	return ui.ErrorWarningCounts(e, w)
}

func printFailures(failures []parsers.Failure) {
	if len(failures) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(ui.Header("Failed"))
	for _, f := range failures {
		fmt.Printf("  %s\n", ui.Error(fmt.Sprintf("%s: %s", f.RelPath, failureMessage(f.Err))))
	}
}

// failureMessage drops the absolute path a ParseError carries; batch output
// already shows the relative one.
func failureMessage(err error) string {
	var pe *content.ParseError
	if errors.As(err, &pe) && pe.Err != nil {
		return pe.Err.Error()
	}
	return err.Error()
}
