package parsers

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gertd/go-pluralize"

	"github.com/aidanlsb/quill/internal/content"
)

// explicitTypeFields are checked in order for a declared content type.
var explicitTypeFields = []string{"type", "content_type", "kind"}

// DefaultSynonyms maps path segments and declared type names to types.
var DefaultSynonyms = map[string]content.Type{
	"portfolio":  content.TypeProject,
	"work":       content.TypeProject,
	"works":      content.TypeProject,
	"apps":       content.TypeProject,
	"posts":      content.TypeBlog,
	"post":       content.TypeBlog,
	"articles":   content.TypeBlog,
	"article":    content.TypeBlog,
	"blog_post":  content.TypeBlog,
	"blogpost":   content.TypeBlog,
	"writing":    content.TypeBlog,
	"vlogs":      content.TypeBlog,
	"vlog":       content.TypeBlog,
	"tutorials":  content.TypeBlog,
	"tutorial":   content.TypeBlog,
	"podcasts":   content.TypeBlog,
	"podcast":    content.TypeBlog,
	"episodes":   content.TypeBlog,
	"cv":         content.TypeResume,
	"cvs":        content.TypeResume,
	"concepts":   content.TypeIdea,
	"concept":    content.TypeIdea,
	"brainstorm": content.TypeIdea,
	"proposals":  content.TypeIdea,
	"research":   content.TypeIdea,
}

// folderPrefixes map "<prefix>.name" directory or file names to types.
var folderPrefixes = map[string]content.Type{
	"blog":     content.TypeBlog,
	"vlog":     content.TypeBlog,
	"episode":  content.TypeBlog,
	"tutorial": content.TypeBlog,
	"podcast":  content.TypeBlog,
	"idea":     content.TypeIdea,
	"project":  content.TypeProject,
}

type indicatorSet struct {
	t      content.Type
	fields []string
}

// metadataIndicators are disjoint field sets checked in order. Blog comes
// first because a blog's category-like fields would otherwise read as
// resume or idea metadata.
var metadataIndicators = []indicatorSet{
	{content.TypeBlog, []string{"excerpt", "author", "published", "published_at", "publish_date", "reading_time", "series", "featured_image", "categories"}},
	{content.TypeResume, []string{"experience", "education", "skills", "work_history", "contact", "email", "phone", "linkedin", "headline"}},
	{content.TypeIdea, []string{"feasibility_score", "impact_score", "innovation_score", "hypothesis", "problem_statement", "abstract", "fundingStatus", "funding_status", "collaborationOpen"}},
	{content.TypeProject, []string{"tech_stack", "github_url", "demo_url", "repository", "start_date", "end_date", "difficulty", "stars", "project_type"}},
}

// Detector decides which parser handles a unit.
type Detector struct {
	registry   *Registry
	contentDir string
	synonyms   map[string]content.Type

	// pluralize.Client is not documented as safe for concurrent use.
	mu     sync.Mutex
	plural *pluralize.Client
}

// NewDetector returns a detector over the registry's types. Path segments
// are taken relative to contentDir when the path lies inside it. aliases add
// or override segment synonyms; aliases naming unregistered types are ignored.
func NewDetector(registry *Registry, contentDir string, aliases map[string]string) *Detector {
	d := &Detector{
		registry:   registry,
		contentDir: contentDir,
		synonyms:   make(map[string]content.Type, len(DefaultSynonyms)+len(aliases)),
		plural:     pluralize.NewClient(),
	}
	for k, v := range DefaultSynonyms {
		d.synonyms[k] = v
	}
	for k, v := range aliases {
		if t := content.Type(strings.ToLower(v)); registry.Has(t) {
			d.synonyms[strings.ToLower(k)] = t
		}
	}
	return d
}

// Synonyms returns the segment synonyms in sorted key order.
func (d *Detector) Synonyms() [][2]string {
	out := make([][2]string, 0, len(d.synonyms))
	for k, v := range d.synonyms {
		out = append(out, [2]string{k, string(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Detect returns the content type for a unit, trying an explicit metadata
// field, then path segments nearest first, then the file name, then
// metadata shape, and finally the project type.
func (d *Detector) Detect(path string, meta content.Metadata) content.Type {
	if t, ok := d.explicit(meta); ok {
		return t
	}
	if t, ok := d.fromPath(path); ok {
		return t
	}
	if t, ok := d.fromMetadataShape(meta); ok {
		return t
	}
	return content.TypeProject
}

func (d *Detector) explicit(meta content.Metadata) (content.Type, bool) {
	for _, field := range explicitTypeFields {
		v := strings.ToLower(meta.String(field))
		if v == "" {
			continue
		}
		if t, ok := d.resolveName(v); ok {
			return t, true
		}
	}
	return "", false
}

// resolveName maps a type name, its plural, or a synonym to a registered type.
func (d *Detector) resolveName(name string) (content.Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	if t := content.Type(name); d.registry.Has(t) {
		return t, true
	}
	if t, ok := d.synonyms[name]; ok && d.registry.Has(t) {
		return t, true
	}
	d.mu.Lock()
	singular := d.plural.Singular(name)
	d.mu.Unlock()
	if singular != name {
		if t := content.Type(singular); d.registry.Has(t) {
			return t, true
		}
		if t, ok := d.synonyms[singular]; ok && d.registry.Has(t) {
			return t, true
		}
	}
	return "", false
}

func (d *Detector) fromPath(path string) (content.Type, bool) {
	if path == "" {
		return "", false
	}
	rel := path
	if d.contentDir != "" && filepath.IsAbs(path) {
		if r, err := filepath.Rel(d.contentDir, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	segments := strings.Split(rel, "/")
	last := segments[len(segments)-1]
	stem := last
	if strings.EqualFold(filepath.Ext(last), ".md") {
		stem = last[:len(last)-len(".md")]
	}
	dirs := segments[:len(segments)-1]
	if stem == last {
		// A folder unit: its own name is the nearest segment.
		dirs = segments
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		seg := strings.ToLower(dirs[i])
		if seg == "" || seg == "." {
			continue
		}
		if t, ok := d.prefixed(seg); ok {
			return t, true
		}
		if t, ok := d.resolveName(seg); ok {
			return t, true
		}
	}
	return d.fromStem(strings.ToLower(stem))
}

func (d *Detector) prefixed(name string) (content.Type, bool) {
	prefix, _, ok := strings.Cut(name, ".")
	if !ok {
		return "", false
	}
	t, ok := folderPrefixes[prefix]
	if !ok || !d.registry.Has(t) {
		return "", false
	}
	return t, true
}

func (d *Detector) fromStem(stem string) (content.Type, bool) {
	if t, ok := d.prefixed(stem); ok {
		return t, true
	}
	switch {
	case stem == "resume" || stem == "cv" || strings.HasSuffix(stem, "-resume") || strings.HasSuffix(stem, "-cv") || strings.HasPrefix(stem, "resume-"):
		return d.registered(content.TypeResume)
	case strings.HasPrefix(stem, "idea-") || strings.HasSuffix(stem, "-idea"):
		return d.registered(content.TypeIdea)
	case strings.HasPrefix(stem, "post-") || strings.HasPrefix(stem, "blog-"):
		return d.registered(content.TypeBlog)
	case strings.HasPrefix(stem, "project-"):
		return d.registered(content.TypeProject)
	}
	return "", false
}

func (d *Detector) fromMetadataShape(meta content.Metadata) (content.Type, bool) {
	for _, set := range metadataIndicators {
		if !d.registry.Has(set.t) {
			continue
		}
		for _, field := range set.fields {
			if _, ok := meta[field]; ok {
				return set.t, true
			}
		}
	}
	return "", false
}

func (d *Detector) registered(t content.Type) (content.Type, bool) {
	return t, d.registry.Has(t)
}
