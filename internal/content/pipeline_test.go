package content

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aidanlsb/quill/internal/markdown"
	"github.com/aidanlsb/quill/internal/testutil"
)

// stubParser records the title as its entity and warns when the body is short.
type stubParser struct {
	panicOn string
	failOn  string
}

func (p *stubParser) ContentType() Type { return TypeProject }

func (p *stubParser) ExtractMainEntity(src *Source, rec *Extracted) error {
	title := src.Metadata.String("title")
	if p.panicOn != "" && title == p.panicOn {
		var m map[string]int
		m["boom"]++
	}
	if p.failOn != "" && title == p.failOn {
		return errors.New("cannot extract")
	}
	rec.MainEntity = &fakeEntity{title: title}
	for _, img := range markdown.ExtractImages(src.Body, nil) {
		rec.AddImage(Image{URL: img.URL, AltText: img.Alt, Caption: img.Alt, Type: img.Type})
	}
	return nil
}

func (p *stubParser) Validate(src *Source, rec *Extracted) {
	if len(src.Body) < 10 {
		rec.AddWarning("content is short")
	}
}

func fixedNow() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

func TestParseSourcePipeline(t *testing.T) {
	src, err := NewSource("p.md", "---\ntitle: X\nlanguage: ES\ntags: [Go, go, CLI]\ncategory: Tools\n---\nTiny")
	if err != nil {
		t.Fatal(err)
	}
	rec, err := ParseSource(&stubParser{}, src, Options{Now: fixedNow})
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}

	if rec.ContentType != TypeProject || rec.FilePath != "p.md" {
		t.Errorf("type/path = %s %s", rec.ContentType, rec.FilePath)
	}
	if rec.Language != "es" {
		t.Errorf("language = %q", rec.Language)
	}
	if !reflect.DeepEqual(rec.Tags, []string{"go", "cli"}) {
		t.Errorf("tags = %v", rec.Tags)
	}
	if !reflect.DeepEqual(rec.Categories, []string{"Tools"}) {
		t.Errorf("categories = %v", rec.Categories)
	}
	if rec.ContentHash != Hash(src.Metadata, src.Body) {
		t.Error("content hash not computed from metadata and body")
	}
	// 1.0 - 0.05 warning + 0.1 entity, clamped.
	if rec.ExtractionQuality != 1.0 {
		t.Errorf("quality = %v", rec.ExtractionQuality)
	}
	if !rec.ParsedAt.Equal(fixedNow()) {
		t.Errorf("parsed_at = %v", rec.ParsedAt)
	}
}

func TestParseDefaultsLanguage(t *testing.T) {
	src, _ := NewSource("p.md", "no frontmatter at all, just words")
	rec, err := ParseSource(&stubParser{}, src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Language != DefaultLanguage {
		t.Errorf("language = %q, want %q", rec.Language, DefaultLanguage)
	}
}

type constDetector string

func (d constDetector) Detect(string) (string, bool) { return string(d), true }

func TestParseUsesDetector(t *testing.T) {
	src, _ := NewSource("p.md", "Ceci est un texte.")
	rec, err := ParseSource(&stubParser{}, src, Options{Detector: constDetector("fr")})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Language != "fr" {
		t.Errorf("language = %q, want fr", rec.Language)
	}
}

func TestParseRecoversPanic(t *testing.T) {
	src, _ := NewSource("bad.md", "---\ntitle: explode\n---\nbody")
	rec, err := ParseSource(&stubParser{panicOn: "explode"}, src, Options{})
	if rec != nil {
		t.Error("expected no record after panic")
	}
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
	if !strings.Contains(err.Error(), "bad.md") {
		t.Errorf("error does not name the file: %v", err)
	}
}

func TestParseExtractionError(t *testing.T) {
	src, _ := NewSource("bad.md", "---\ntitle: nope\n---\nbody")
	_, err := ParseSource(&stubParser{failOn: "nope"}, src, Options{})
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != KindExtractionFailed {
		t.Errorf("err = %v, want extraction_failed ParseError", err)
	}
}

func TestParseMalformedFrontmatter(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithFile("broken.md", "---\ntitle: [unterminated\n---\nbody").
		Build()
	_, err := Parse(&stubParser{}, tree.Join("broken.md"), Options{})
	if !errors.Is(err, ErrMalformedFrontmatter) {
		t.Errorf("err = %v, want ErrMalformedFrontmatter", err)
	}
}

func TestParseIdempotent(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithFile("p.md", "---\ntitle: Same\ntags: [a]\n---\n![Logo](logo.png)\nSome body text here.").
		Build()

	first, err := Parse(&stubParser{}, tree.Join("p.md"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse(&stubParser{}, tree.Join("p.md"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	first.ParsedAt, second.ParsedAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("records differ:\n%+v\n%+v", first, second)
	}
}

func TestParseFolderAttachesAssets(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithProjectFolder("engine",
			"---\ntitle: Engine\n---\n![Arch diagram](docs/arch.png)\nA longer body for the engine.",
			"featured: true",
			"screenshot-home.png", "logo.svg").
		WithFile("engine/assets/docs/design.pdf", "pdf").
		Build()

	rec, err := Parse(&stubParser{}, tree.Join("engine"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Images) != 3 {
		t.Fatalf("images = %+v", rec.Images)
	}
	if rec.Images[0].URL != "docs/arch.png" || rec.Images[0].Type != "diagram" {
		t.Errorf("body image first: %+v", rec.Images[0])
	}
	types := []string{rec.Images[1].Type, rec.Images[2].Type}
	if !reflect.DeepEqual(types, []string{"logo", "screenshot"}) {
		t.Errorf("folder image types = %v", types)
	}
	if rec.Images[2].SortOrder != 2 || rec.Images[2].FileSize == 0 {
		t.Errorf("folder image = %+v", rec.Images[2])
	}
	assets, ok := rec.Metadata["assets"].(map[string]any)
	if !ok {
		t.Fatalf("assets metadata = %#v", rec.Metadata["assets"])
	}
	if docs, _ := assets["docs"].([]string); len(docs) != 1 || docs[0] != "assets/docs/design.pdf" {
		t.Errorf("docs = %v", assets["docs"])
	}
}

func TestParseTranslations(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithFile("post.md", "---\ntitle: Hello\ntranslations:\n  fr:\n    title: Bonjour\n    excerpt: Salut\n---\nBody").
		WithFile("post.es.md", "# Hola\nCuerpo del texto").
		WithFile("post.fr.md", "# Ignored\nMetadata wins").
		Build()

	rec, err := Parse(&stubParser{}, tree.Join("post.md"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Translations) != 2 {
		t.Fatalf("translations = %+v", rec.Translations)
	}
	es, fr := rec.Translations[0], rec.Translations[1]
	if es.Language != "es" || es.Title != "Hola" || !strings.Contains(es.Content, "Cuerpo") {
		t.Errorf("es = %+v", es)
	}
	if fr.Language != "fr" || fr.Title != "Bonjour" || fr.Description != "Salut" {
		t.Errorf("fr = %+v", fr)
	}
}
