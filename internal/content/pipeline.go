package content

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aidanlsb/quill/internal/markdown"
)

// Parser is the capability set every content-type parser implements. The
// pipeline owns reading, hashing, shared fields, folder assets, translations
// and scoring; a parser only fills in its main entity and validates it.
type Parser interface {
	// ContentType returns the type tag of records this parser produces.
	ContentType() Type
	// ExtractMainEntity populates rec.MainEntity and any technologies,
	// images or metadata the parser owns. A returned error aborts the parse
	// as extraction_failed.
	ExtractMainEntity(src *Source, rec *Extracted) error
	// Validate appends validation errors and warnings to rec. It never fails.
	Validate(src *Source, rec *Extracted)
}

// Options adjust pipeline behavior.
type Options struct {
	// Detector guesses the body language when metadata names none.
	Detector LanguageDetector
	// Now returns the reference time. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Parse loads path (a file or content folder) and runs p over it.
func Parse(p Parser, path string, opts Options) (*Extracted, error) {
	src, err := LoadSource(path)
	if err != nil {
		return nil, err
	}
	return ParseSource(p, src, opts)
}

// ParseSource runs the fixed extraction pipeline over an already loaded
// source. A panic inside the parser is recovered and reported as an
// extraction_failed ParseError.
func ParseSource(p Parser, src *Source, opts Options) (rec *Extracted, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = newParseError(KindExtractionFailed, src.Unit, fmt.Errorf("%w: panic: %v", ErrExtractionFailed, r))
		}
	}()

	src.Now = opts.now()
	rec = NewExtracted(p.ContentType(), src.Unit)
	rec.ContentHash = Hash(src.Metadata, src.Body)
	populateShared(src, rec, opts.Detector)

	if err := p.ExtractMainEntity(src, rec); err != nil {
		return nil, newParseError(KindExtractionFailed, src.Unit, fmt.Errorf("%w: %v", ErrExtractionFailed, err))
	}
	attachFolder(src, rec)
	attachTranslations(src, rec)

	p.Validate(src, rec)
	rec.ComputeQuality()
	rec.ParsedAt = opts.now()
	return rec, nil
}

func populateShared(src *Source, rec *Extracted, detector LanguageDetector) {
	if lang := src.Metadata.String("language", "lang", "locale"); lang != "" {
		rec.Language = strings.ToLower(lang)
	} else if detector != nil {
		if lang, ok := detector.Detect(markdown.PlainText(src.Body)); ok {
			rec.Language = lang
		}
	}
	for _, tag := range src.Metadata.StringList("tags") {
		rec.AddTag(tag)
	}
	for _, category := range src.Metadata.StringList("categories", "category") {
		rec.AddCategory(category)
	}
}

// attachFolder appends folder images after any body images and records the
// remaining assets under metadata["assets"].
func attachFolder(src *Source, rec *Extracted) {
	if src.Folder == nil {
		return
	}
	f := src.Folder
	for _, img := range f.Images {
		alt := strings.TrimSuffix(img.Name, path.Ext(img.Name))
		rec.AddImage(Image{
			URL:      img.Path,
			AltText:  alt,
			Caption:  alt,
			Type:     markdown.ClassifyImage(img.Path, alt, markdown.DefaultImageTypes),
			FileSize: img.Size,
		})
	}

	assets := map[string]any{}
	for key, list := range map[string][]Asset{
		"videos":   f.Videos,
		"docs":     f.Docs,
		"notes":    f.Notes,
		"research": f.Research,
	} {
		if len(list) == 0 {
			continue
		}
		paths := make([]string, len(list))
		for i, a := range list {
			paths[i] = a.Path
		}
		assets[key] = paths
	}
	if len(assets) > 0 {
		rec.Metadata["assets"] = assets
	}
	rec.Metadata["folder"] = true
}

// attachTranslations merges the metadata translations mapping with sibling
// translation files. Metadata entries win for the same language.
func attachTranslations(src *Source, rec *Extracted) {
	byLang := map[string]Translation{}

	if tr := src.Metadata.Map("translations"); tr != nil {
		for lang, v := range tr {
			entry, ok := v.(map[string]any)
			if !ok {
				continue
			}
			m := Metadata(entry)
			byLang[strings.ToLower(lang)] = Translation{
				Language:    strings.ToLower(lang),
				Title:       m.String("title"),
				Description: m.String("description", "excerpt", "abstract"),
				Content:     m.String("content", "body"),
			}
		}
	}
	for _, item := range src.Metadata.List("translations") {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		m := Metadata(entry)
		lang := strings.ToLower(m.String("language", "lang"))
		if lang == "" {
			continue
		}
		byLang[lang] = Translation{
			Language:    lang,
			Title:       m.String("title"),
			Description: m.String("description", "excerpt", "abstract"),
			Content:     m.String("content", "body"),
		}
	}

	for _, sib := range src.Siblings {
		lang := strings.ToLower(sib.Language)
		if _, exists := byLang[lang]; exists {
			continue
		}
		title := sib.Metadata.String("title")
		if title == "" {
			title = markdown.FirstHeading(sib.Body, 1)
		}
		byLang[lang] = Translation{
			Language:    lang,
			Title:       title,
			Description: sib.Metadata.String("description", "excerpt", "abstract"),
			Content:     strings.TrimSpace(sib.Body),
		}
	}

	if len(byLang) == 0 {
		return
	}
	langs := make([]string, 0, len(byLang))
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		rec.Translations = append(rec.Translations, byLang[lang])
	}
}
