package parsers

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/dates"
	"github.com/aidanlsb/quill/internal/markdown"
)

// Blog post statuses.
const (
	PostDraft     = "draft"
	PostPublished = "published"
	PostPrivate   = "private"
)

// DefaultPostType is used when no signal names a post type.
const DefaultPostType = "article"

// Editorial thresholds for blog validation.
const (
	WordsPerMinute = 200
	MinPostWords   = 300
	MaxPostWords   = 3000
	MinTitleChars  = 30
	MaxTitleChars  = 60
	ExcerptChars   = 200
	excerptMinLine = 50
)

// BlogPost is the main entity of blog content.
type BlogPost struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	PostType      string     `json:"content_type"`
	Status        string     `json:"status"`
	Author        string     `json:"author,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	WordCount     int        `json:"word_count"`
	ReadingTime   int        `json:"reading_time_minutes"`
	Series        *Series    `json:"series,omitempty"`
	Content       string     `json:"content"`
}

// Kind returns TypeBlog.
func (b *BlogPost) Kind() content.Type {
	return content.TypeBlog
}

// Identity returns the post title and slug.
func (b *BlogPost) Identity() (title, slug string) {
	return b.Title, b.Slug
}

// Empty reports whether the post has neither a title nor any content.
func (b *BlogPost) Empty() bool {
	return b.Title == "" && strings.TrimSpace(b.Content) == ""
}

// postTypePrefixes are recognized as "<prefix>." on folder names and as
// "<prefix>." / "<prefix>-" / "<prefix>_" on file names.
var postTypePrefixes = []struct {
	prefix   string
	postType string
}{
	{"vlog", "vlog"},
	{"blog", DefaultPostType},
	{"episode", "episode"},
	{"tutorial", "tutorial"},
	{"podcast", "podcast"},
}

// postTypeIndicators drive content-keyword inference. An entry needs at
// least two hits; the entry with the most hits wins, ties by table order.
var postTypeIndicators = []keywordEntry{
	{"tutorial", []string{"tutorial", "step-by-step", "step by step", "how to", "in this guide", "prerequisites", "step 1"}},
	{"review", []string{"review", "pros and cons", "verdict", "rating", "compared to", "versus"}},
	{"podcast", []string{"podcast", "listen", "episode", "show notes", "guest"}},
	{"vlog", []string{"video", "watch", "youtube", "vlog", "filmed"}},
	{"news", []string{"announcing", "announcement", "released", "release notes", "launch"}},
	{"case-study", []string{"case study", "client", "results", "outcome", "challenge"}},
}

// categoryIndicators drive category inference when metadata names none.
var categoryIndicators = []keywordEntry{
	{"Programming", []string{"programming", "code", "coding", "developer", "software", "function", "compiler"}},
	{"AI", []string{"artificial intelligence", "machine learning", "ai", "llm", "neural", "deep learning"}},
	{"Web Development", []string{"web development", "html", "css", "javascript", "frontend", "browser", "react"}},
	{"Data Science", []string{"data science", "pandas", "dataset", "statistics", "analytics", "visualization"}},
	{"Tutorial", []string{"tutorial", "how to", "step by step", "step-by-step", "guide"}},
	{"Review", []string{"review", "comparison", "pros and cons", "verdict"}},
}

var blogStatusKeywords = []struct {
	status   string
	keywords []string
}{
	{PostDraft, []string{"draft", "wip", "unpublished", "pending", "in progress"}},
	{PostPublished, []string{"published", "live", "public", "posted"}},
	{PostPrivate, []string{"private", "hidden", "unlisted", "internal"}},
}

var (
	acronymRe = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
	// acronymStoplist excludes shouting and roman numerals from tag inference.
	acronymStoplist = map[string]bool{
		"I": true, "II": true, "III": true, "IV": true, "VI": true, "OK": true, "THE": true,
		"AND": true, "FOR": true, "NOT": true, "TODO": true, "NOTE": true, "FAQ": true, "TLDR": true,
	}
)

// BlogParser parses blog posts, vlogs, tutorials and podcast episodes.
type BlogParser struct {
	contentDir string
}

// NewBlogParser returns a parser for blog content under contentDir.
func NewBlogParser(contentDir string) content.Parser {
	return &BlogParser{contentDir: contentDir}
}

// ContentType returns TypeBlog.
func (p *BlogParser) ContentType() content.Type {
	return content.TypeBlog
}

// ExtractMainEntity builds a BlogPost from the frontmatter and body. The
// excerpt is derived from the body when none is given.
func (p *BlogParser) ExtractMainEntity(src *content.Source, rec *content.Extracted) error {
	meta := src.Metadata
	post := &BlogPost{Content: strings.TrimSpace(src.Body)}
	post.Title = entityTitle(src)
	post.Slug = entitySlug(src, post.Title)
	post.Excerpt = meta.String("excerpt", "summary", "description")
	if post.Excerpt == "" {
		post.Excerpt = deriveExcerpt(src.Body)
	}
	post.Author = meta.String("author", "authors")
	post.PublishedAt = timePtr(meta.Date("date", "published_at", "publish_date", "published_date", "created"))
	post.PostType = inferPostType(src)
	post.Status = inferPostStatus(meta)

	post.WordCount = markdown.WordCount(src.Body)
	post.ReadingTime = ReadingTime(post.WordCount)

	addBodyImages(rec, src.Body, nil)
	post.FeaturedImage = meta.String("featured_image", "cover_image", "cover", "image", "thumbnail", "hero")
	if post.FeaturedImage == "" && len(rec.Images) > 0 {
		post.FeaturedImage = rec.Images[0].URL
	}
	if post.FeaturedImage == "" && src.Folder != nil && len(src.Folder.Images) > 0 {
		post.FeaturedImage = src.Folder.Images[0].Path
	}

	post.Series = DetectSeries(src)
	rec.MainEntity = post

	lowered := strings.ToLower(markdown.PlainText(src.Body))
	if len(rec.Categories) == 0 {
		for _, entry := range categoryIndicators {
			if keywordHits(lowered, entry.keywords) > 0 {
				rec.AddCategory(entry.value)
			}
		}
	}

	for _, tag := range markdown.Hashtags(src.Body) {
		rec.AddTag(tag)
	}
	for _, name := range addContentTechnologies(rec, src.Body, src.Body) {
		rec.AddTag(name)
	}
	for _, acronym := range inferAcronyms(markdown.PlainText(src.Body)) {
		rec.AddTag(acronym)
	}

	rec.Metadata["analysis"] = AnalyzePost(src.Body, len(rec.Technologies))
	return nil
}

// Validate requires a title and content and warns about missing optional
// fields such as the excerpt.
func (p *BlogParser) Validate(src *content.Source, rec *content.Extracted) {
	post, ok := rec.MainEntity.(*BlogPost)
	if !ok {
		rec.AddError("missing blog post entity")
		return
	}
	if post.Title == "" {
		rec.AddError("missing title")
	}
	if post.Content == "" {
		rec.AddError("missing content")
	}
	meta := src.Metadata
	if !meta.Has("excerpt", "summary", "description") {
		rec.AddWarning("missing excerpt; derived from content")
	}
	if !meta.Has("categories", "category") {
		rec.AddWarning("missing categories")
	}
	if !meta.Has("tags") {
		rec.AddWarning("missing tags")
	}
	if post.Content != "" {
		switch {
		case post.WordCount < MinPostWords:
			rec.AddWarning(fmt.Sprintf("content is short: %d words (recommended at least %d)", post.WordCount, MinPostWords))
		case post.WordCount > MaxPostWords:
			rec.AddWarning(fmt.Sprintf("content is long: %d words (recommended at most %d)", post.WordCount, MaxPostWords))
		}
	}
	if n := utf8.RuneCountInString(post.Title); post.Title != "" && (n < MinTitleChars || n > MaxTitleChars) {
		rec.AddWarning(fmt.Sprintf("title length %d outside recommended %d-%d characters", n, MinTitleChars, MaxTitleChars))
	}
	if post.PublishedAt != nil && post.PublishedAt.After(src.Now) {
		rec.AddWarning(fmt.Sprintf("publish date %s is in the future", dates.Format(*post.PublishedAt)))
	}
}

// ReadingTime returns whole minutes at WordsPerMinute, never less than one.
func ReadingTime(words int) int {
	minutes := words / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// deriveExcerpt uses the first non-heading line longer than 50 characters,
// falling back to the start of the de-headed content.
func deriveExcerpt(body string) string {
	for _, line := range markdown.ProseLines(body) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		clean := markdown.Clean(trimmed)
		if utf8.RuneCountInString(clean) > excerptMinLine {
			return markdown.Truncate(clean, ExcerptChars)
		}
	}
	return markdown.Truncate(markdown.PlainText(body), ExcerptChars)
}

func inferPostType(src *content.Source) string {
	if t := prefixPostType(unitDirName(src), "."); t != "" {
		return t
	}
	if t := strings.ToLower(src.Metadata.String("post_type", "format", "content_type")); t != "" && !isBlogTag(t) {
		return t
	}
	if t := prefixPostType(src.Stem(), ".", "-", "_"); t != "" {
		return t
	}

	lowered := strings.ToLower(markdown.PlainText(src.Body))
	best, bestHits := "", 1
	for _, entry := range postTypeIndicators {
		if hits := keywordHits(lowered, entry.keywords); hits > bestHits {
			best, bestHits = entry.value, hits
		}
	}
	if best != "" {
		return best
	}
	return DefaultPostType
}

// unitDirName is the folder name for folder content and the parent directory
// name for a single file.
func unitDirName(src *content.Source) string {
	if src.IsFolder() {
		return src.Name()
	}
	return filepath.Base(src.Dir())
}

func prefixPostType(name string, separators ...string) string {
	lowered := strings.ToLower(name)
	for _, entry := range postTypePrefixes {
		for _, sep := range separators {
			if strings.HasPrefix(lowered, entry.prefix+sep) {
				return entry.postType
			}
		}
	}
	return ""
}

func isBlogTag(t string) bool {
	switch t {
	case "blog", "blog_post", "blogpost", "post", "posts":
		return true
	}
	return false
}

func inferPostStatus(meta content.Metadata) string {
	if raw := strings.ToLower(meta.String("status")); raw != "" {
		for _, entry := range blogStatusKeywords {
			for _, kw := range entry.keywords {
				if containsWord(raw, kw) {
					return entry.status
				}
			}
		}
	}
	if draft, ok := meta.Bool("draft"); ok && draft {
		return PostDraft
	}
	if published, ok := meta.Bool("published"); ok {
		if !published {
			return PostDraft
		}
		return PostPublished
	}
	if private, ok := meta.Bool("private"); ok && private {
		return PostPrivate
	}
	return PostPublished
}

// inferAcronyms returns short uppercase tokens used at least twice, sorted.
func inferAcronyms(plain string) []string {
	counts := map[string]int{}
	for _, m := range acronymRe.FindAllString(plain, -1) {
		if !acronymStoplist[m] {
			counts[m]++
		}
	}
	var out []string
	for a, n := range counts {
		if n >= 2 {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}
