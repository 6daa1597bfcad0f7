// Package content defines the extraction contract shared by every content
// parser: the Extracted record, its sub-records, the fixed parse pipeline, and
// quality scoring.
//
// A record is created fresh for each parsed file or folder. Relationships to
// other content (series, related projects) stay unresolved strings inside the
// main entity or metadata; resolving them is the sync layer's job.
package content

import (
	"strings"
	"time"
)

// Type identifies which parser produced a record.
type Type string

// Built-in content types.
const (
	TypeProject Type = "project"
	TypeBlog    Type = "blog"
	TypeIdea    Type = "idea"
	TypeResume  Type = "resume"
)

// DefaultLanguage is used when metadata names no language.
const DefaultLanguage = "en"

// Entity is the typed main record a parser produces.
type Entity interface {
	// Kind returns the content type the entity belongs to.
	Kind() Type
	// Empty reports whether no field of the entity was populated.
	Empty() bool
	// Identity returns the entity's display title and slug.
	Identity() (title, slug string)
}

// Technology is one technology used by or required for a content item.
type Technology struct {
	Name          string `json:"technology_name"`
	Category      string `json:"technology_type"`
	SortOrder     int    `json:"sort_order"`
	Source        string `json:"source,omitempty"`
	Proficiency   string `json:"proficiency,omitempty"`
	Expertise     string `json:"required_expertise,omitempty"`
	Availability  string `json:"availability,omitempty"`
	LearningCurve string `json:"learning_curve,omitempty"`
	CostFactor    string `json:"cost_factor,omitempty"`
}

// Image is an image referenced by a content item.
type Image struct {
	URL       string `json:"image_url"`
	AltText   string `json:"alt_text"`
	Caption   string `json:"caption"`
	Type      string `json:"image_type"`
	SortOrder int    `json:"sort_order"`
	FileSize  int64  `json:"file_size,omitempty"`
}

// Translation is a localized variant of a content item.
type Translation struct {
	Language    string `json:"language"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
}

// Extracted is the universal output of a parse.
type Extracted struct {
	ContentType        Type           `json:"content_type"`
	FilePath           string         `json:"file_path"`
	Language           string         `json:"language"`
	ContentHash        string         `json:"content_hash"`
	MainEntity         Entity         `json:"main_entity"`
	Translations       []Translation  `json:"translations"`
	Technologies       []Technology   `json:"technologies"`
	Images             []Image        `json:"images"`
	Tags               []string       `json:"tags"`
	Categories         []string       `json:"categories"`
	Metadata           map[string]any `json:"metadata"`
	ExtractionQuality  float64        `json:"extraction_quality"`
	ValidationErrors   []string       `json:"validation_errors"`
	ValidationWarnings []string       `json:"validation_warnings"`
	ParsedAt           time.Time      `json:"parsed_at"`
}

// NewExtracted returns an empty record for the given type and path.
func NewExtracted(t Type, path string) *Extracted {
	return &Extracted{
		ContentType:        t,
		FilePath:           path,
		Language:           DefaultLanguage,
		Translations:       []Translation{},
		Technologies:       []Technology{},
		Images:             []Image{},
		Tags:               []string{},
		Categories:         []string{},
		Metadata:           map[string]any{},
		ValidationErrors:   []string{},
		ValidationWarnings: []string{},
	}
}

// Valid reports whether the record has no validation errors. Quality alone
// never implies validity.
func (e *Extracted) Valid() bool {
	return len(e.ValidationErrors) == 0
}

// AddError appends a validation error.
func (e *Extracted) AddError(msg string) {
	e.ValidationErrors = append(e.ValidationErrors, msg)
}

// AddWarning appends a validation warning.
func (e *Extracted) AddWarning(msg string) {
	e.ValidationWarnings = append(e.ValidationWarnings, msg)
}

// AddTag adds a lowercased, trimmed tag unless already present.
func (e *Extracted) AddTag(tag string) {
	tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#")))
	if tag == "" {
		return
	}
	for _, existing := range e.Tags {
		if existing == tag {
			return
		}
	}
	e.Tags = append(e.Tags, tag)
}

// AddCategory adds a trimmed category unless one equal ignoring case exists.
func (e *Extracted) AddCategory(category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		return
	}
	for _, existing := range e.Categories {
		if strings.EqualFold(existing, category) {
			return
		}
	}
	e.Categories = append(e.Categories, category)
}

// HasTechnology reports whether a technology with this name (ignoring case)
// was already recorded.
func (e *Extracted) HasTechnology(name string) bool {
	for _, t := range e.Technologies {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// AddTechnology appends t with the next sort order unless a technology of the
// same name exists. It returns whether t was added.
func (e *Extracted) AddTechnology(t Technology) bool {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" || e.HasTechnology(t.Name) {
		return false
	}
	t.SortOrder = len(e.Technologies)
	e.Technologies = append(e.Technologies, t)
	return true
}

// AddImage appends img with the next sort order, skipping duplicate URLs.
func (e *Extracted) AddImage(img Image) bool {
	if strings.TrimSpace(img.URL) == "" {
		return false
	}
	for _, existing := range e.Images {
		if existing.URL == img.URL {
			return false
		}
	}
	img.SortOrder = len(e.Images)
	e.Images = append(e.Images, img)
	return true
}

// HasEntity reports whether a non-empty main entity was produced.
func (e *Extracted) HasEntity() bool {
	return e.MainEntity != nil && !e.MainEntity.Empty()
}
