package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/dates"
	"github.com/aidanlsb/quill/internal/markdown"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusCompleted ProjectStatus = "COMPLETED"
	StatusActive    ProjectStatus = "ACTIVE"
	StatusPaused    ProjectStatus = "PAUSED"
	StatusCancelled ProjectStatus = "CANCELLED"
)

// DefaultProjectType is used when neither metadata nor content names one.
const DefaultProjectType = "Web Application"

// Relationship is an unresolved reference to other work.
type Relationship struct {
	Type   string `json:"relation_type"`
	Target string `json:"target"`
}

// Metric is a performance figure found in the project write-up.
type Metric struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ProjectDetails holds the long-form sections of a project.
type ProjectDetails struct {
	DetailedDescription string `json:"detailed_description,omitempty"`
	Goals               string `json:"goals,omitempty"`
	Challenges          string `json:"challenges,omitempty"`
	Solutions           string `json:"solutions,omitempty"`
	LessonsLearned      string `json:"lessons_learned,omitempty"`
	FutureEnhancements  string `json:"future_enhancements,omitempty"`
	License             string `json:"license,omitempty"`
	Version             string `json:"version,omitempty"`
}

func (d ProjectDetails) empty() bool { return d == ProjectDetails{} }

// Project is the main entity of project content.
type Project struct {
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description"`
	ProjectType   string            `json:"project_type"`
	Status        ProjectStatus     `json:"status"`
	StartDate     *time.Time        `json:"start_date,omitempty"`
	EndDate       *time.Time        `json:"end_date,omitempty"`
	GithubURL     string            `json:"github_url,omitempty"`
	DemoURL       string            `json:"demo_url,omitempty"`
	DocsURL       string            `json:"docs_url,omitempty"`
	Featured      bool              `json:"featured"`
	Public        bool              `json:"public"`
	Stars         int               `json:"stars"`
	Details       ProjectDetails    `json:"details"`
	Relationships []Relationship    `json:"relationships,omitempty"`
	Metrics       map[string]Metric `json:"performance_metrics,omitempty"`
}

// Kind returns TypeProject.
func (p *Project) Kind() content.Type {
	return content.TypeProject
}

// Identity returns the project title and slug.
func (p *Project) Identity() (title, slug string) {
	return p.Title, p.Slug
}

// Empty reports whether nothing identifying the project was extracted.
func (p *Project) Empty() bool {
	return p.Title == "" && p.Description == "" && p.Details.empty() && p.StartDate == nil
}

// difficultyTypes maps a difficulty level to a project type.
var difficultyTypes = map[string]string{
	"beginner":     "Learning Project",
	"intermediate": "Development Project",
	"advanced":     "Professional Project",
	"expert":       "Research Project",
}

type keywordEntry struct {
	value    string
	keywords []string
}

// projectTypeKeywords is checked in order; the first entry with a hit wins.
var projectTypeKeywords = []keywordEntry{
	{"Machine Learning", []string{"machine learning", "deep learning", "neural network", "model training", "ml model", "computer vision", "nlp"}},
	{"Mobile Application", []string{"mobile app", "ios", "android", "react native", "flutter"}},
	{"CLI Tool", []string{"cli", "command line", "command-line", "terminal tool"}},
	{"Library", []string{"library", "sdk", "package for", "framework for"}},
	{"API Service", []string{"rest api", "graphql", "microservice", "api service", "backend service"}},
	{"Data Pipeline", []string{"etl", "data pipeline", "data processing", "ingestion"}},
	{"Game", []string{"game", "unity", "godot", "gameplay"}},
	{"Browser Extension", []string{"browser extension", "chrome extension", "firefox add-on"}},
	{DefaultProjectType, []string{"web app", "web application", "website", "dashboard", "frontend"}},
}

var projectStatusKeywords = []struct {
	status   ProjectStatus
	keywords []string
}{
	{StatusCompleted, []string{"completed", "complete", "done", "finished", "shipped", "released"}},
	{StatusActive, []string{"active", "in progress", "in-progress", "ongoing", "wip", "development", "maintained"}},
	{StatusPaused, []string{"paused", "on hold", "on-hold", "hiatus", "stalled"}},
	{StatusCancelled, []string{"cancelled", "canceled", "abandoned", "archived", "discontinued"}},
}

// detailSynonyms maps section titles to detail fields, checked in order.
var detailSynonyms = []keywordEntry{
	{"detailed_description", []string{"overview", "summary", "about", "description"}},
	{"goals", []string{"goals", "objectives"}},
	{"challenges", []string{"challenges", "problems", "difficulties"}},
	{"solutions", []string{"solutions", "solution", "approach", "methodology", "implementation"}},
	{"lessons_learned", []string{"lessons", "learnings", "takeaways", "what i learned"}},
	{"future_enhancements", []string{"future", "roadmap", "next steps", "enhancements", "improvements"}},
}

var relationshipTypes = map[string]string{
	"based on":    "based_on",
	"forked from": "forked_from",
	"inspired by": "inspired_by",
	"depends on":  "depends_on",
	"related to":  "related_to",
}

var (
	relationshipRe = regexp.MustCompile(`(?i)\b(based on|forked from|inspired by|depends on|related to)\s+([^.,;:\n]+)`)
	licenseLineRe  = regexp.MustCompile(`(?im)^\s*(?:\*\*)?licen[cs]e(?:\*\*)?\s*[:\-]\s*(.+?)\s*$`)
	licensedRe     = regexp.MustCompile(`(?i)licensed under (?:the )?([A-Za-z0-9.\- ]+?)(?: license)?[.\n]`)
	versionRe      = regexp.MustCompile(`(?i)\bversion\s*[:=]?\s*v?(\d+\.\d+(?:\.\d+)?)\b`)
	semverRe       = regexp.MustCompile(`\bv(\d+\.\d+\.\d+)\b`)
)

type metricPattern struct {
	name string
	re   *regexp.Regexp
}

var metricPatterns = []metricPattern{
	{"response_time", regexp.MustCompile(`(?i)(?:response time|latency)[^\d\n]{0,25}(\d+(?:\.\d+)?)\s*(ms|milliseconds|seconds|s)\b`)},
	{"accuracy", regexp.MustCompile(`(?i)(?:accuracy|precision)[^\d\n]{0,25}(\d+(?:\.\d+)?)\s*(%|percent)`)},
	{"uptime", regexp.MustCompile(`(?i)(?:uptime|availability)[^\d\n]{0,25}(\d+(?:\.\d+)?)\s*(%|percent)`)},
	{"users", regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*([km])?\+?\s+(?:active |monthly |daily )?(users)\b`)},
	{"satisfaction", regexp.MustCompile(`(?i)satisfaction[^\d\n]{0,25}(\d+(?:\.\d+)?)\s*(%|percent|/\s*5|/\s*10)`)},
}

// ProjectParser parses project content, including folder-based projects.
type ProjectParser struct {
	contentDir string
}

// NewProjectParser returns a parser for projects under contentDir.
func NewProjectParser(contentDir string) content.Parser {
	return &ProjectParser{contentDir: contentDir}
}

// ContentType returns TypeProject.
func (p *ProjectParser) ContentType() content.Type {
	return content.TypeProject
}

// ExtractMainEntity builds a Project from frontmatter and body, inferring
// status from the end date when it is not given.
func (p *ProjectParser) ExtractMainEntity(src *content.Source, rec *content.Extracted) error {
	meta := src.Metadata
	proj := &Project{}
	proj.Title = entityTitle(src, "title", "name")
	proj.Slug = entitySlug(src, proj.Title)
	proj.Description = meta.String("description", "summary", "excerpt", "tagline")
	if proj.Description == "" {
		proj.Description = markdown.Truncate(firstParagraph(markdown.ExtractFirstSection(src.Body, "Overview", "Description", "About")), 300)
	}
	if proj.Description == "" {
		proj.Description = markdown.Truncate(firstParagraph(src.Body), 300)
	}

	proj.StartDate = timePtr(meta.Date("start_date", "started", "start", "date"))
	proj.EndDate = timePtr(meta.Date("end_date", "completed_date", "finished", "end"))
	if proj.StartDate == nil && proj.EndDate == nil {
		if r, ok := dates.ParseRange(meta.String("timeline", "duration", "period")); ok {
			proj.StartDate, proj.EndDate = r.Start, r.End
		}
	}

	links := meta.Map("links", "urls")
	proj.GithubURL = firstNonEmpty(meta.String("github_url", "github", "repository", "repo"), links.String("github", "repository", "repo"))
	proj.DemoURL = firstNonEmpty(meta.String("demo_url", "demo", "live_url", "website"), links.String("demo", "live", "website"))
	proj.DocsURL = firstNonEmpty(meta.String("docs_url", "documentation", "docs"), links.String("docs", "documentation"))

	proj.Featured, _ = meta.Bool("featured")
	proj.Public = true
	if v, ok := meta.Bool("public"); ok {
		proj.Public = v
	} else if v, ok := meta.Bool("private"); ok {
		proj.Public = !v
	}
	proj.Stars, _ = meta.Int("stars", "github_stars", "star_count")

	proj.ProjectType = inferProjectType(meta, proj, src.Body)
	proj.Status = inferProjectStatus(meta.String("status"), proj.EndDate, src.Now)
	proj.Details = extractDetails(src.Body, meta)
	proj.Relationships = extractRelationships(src.Body, meta)
	proj.Metrics = extractMetrics(markdown.ExtractFirstSection(src.Body, "Performance", "Metrics", "Results"), src.Body)

	rec.MainEntity = proj

	addMetadataTechnologies(rec, src, "tech_stack", "technologies", "tech", "stack")
	techText := markdown.ExtractFirstSection(src.Body, "Implementation", "Technical Architecture", "Architecture", "Tech Stack")
	if techText == "" {
		techText = src.Body
	}
	addContentTechnologies(rec, techText, src.Body)

	addBodyImages(rec, src.Body, nil)
	if proj.Difficulty() != "" {
		rec.Metadata["difficulty"] = proj.Difficulty()
	}
	return nil
}

// Difficulty returns the difficulty level implied by the project type.
func (p *Project) Difficulty() string {
	for level, t := range difficultyTypes {
		if t == p.ProjectType {
			return level
		}
	}
	return ""
}

// Validate requires a title, checks link URLs and date order, and warns when
// no description or technologies were found.
func (p *ProjectParser) Validate(src *content.Source, rec *content.Extracted) {
	proj, ok := rec.MainEntity.(*Project)
	if !ok {
		rec.AddError("missing project entity")
		return
	}
	if proj.Title == "" {
		rec.AddError("missing title")
	}
	if proj.Description == "" {
		rec.AddWarning("missing description")
	}
	if len(rec.Technologies) == 0 {
		rec.AddWarning("no technologies found")
	}
	checkURL(rec, "github_url", proj.GithubURL)
	checkURL(rec, "demo_url", proj.DemoURL)
	checkURL(rec, "docs_url", proj.DocsURL)
	if proj.StartDate != nil && proj.EndDate != nil && proj.StartDate.After(*proj.EndDate) {
		rec.AddError(fmt.Sprintf("start_date %s is after end_date %s", dates.Format(*proj.StartDate), dates.Format(*proj.EndDate)))
	}
	if proj.StartDate != nil && proj.StartDate.After(src.Now) {
		rec.AddWarning(fmt.Sprintf("start_date %s is in the future", dates.Format(*proj.StartDate)))
	}
}

func inferProjectType(meta content.Metadata, proj *Project, body string) string {
	if t := meta.String("project_type", "category_type"); t != "" {
		return t
	}
	if level := strings.ToLower(meta.String("difficulty", "difficulty_level", "level")); level != "" {
		if t, ok := difficultyTypes[level]; ok {
			return t
		}
	}
	text := strings.ToLower(proj.Title + "\n" + proj.Description + "\n" + body)
	for _, entry := range projectTypeKeywords {
		if keywordHits(text, entry.keywords) > 0 {
			return entry.value
		}
	}
	return DefaultProjectType
}

func inferProjectStatus(raw string, end *time.Time, now time.Time) ProjectStatus {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered != "" {
		for _, entry := range projectStatusKeywords {
			for _, kw := range entry.keywords {
				if lowered == kw || containsWord(lowered, kw) {
					return entry.status
				}
			}
		}
	}
	if end != nil && end.Before(now) {
		return StatusCompleted
	}
	return StatusActive
}

func extractDetails(body string, meta content.Metadata) ProjectDetails {
	parts := map[string][]string{}
	for _, sec := range markdown.Sections(body) {
		if sec.Content == "" {
			continue
		}
		title := strings.ToLower(sec.Title)
		for _, entry := range detailSynonyms {
			if keywordHits(title, entry.keywords) > 0 {
				parts[entry.value] = append(parts[entry.value], sec.Content)
				break
			}
		}
	}
	join := func(key string) string { return strings.Join(parts[key], "\n\n") }

	d := ProjectDetails{
		DetailedDescription: join("detailed_description"),
		Goals:               join("goals"),
		Challenges:          join("challenges"),
		Solutions:           join("solutions"),
		LessonsLearned:      join("lessons_learned"),
		FutureEnhancements:  join("future_enhancements"),
		License:             meta.String("license", "licence"),
		Version:             strings.TrimPrefix(meta.String("version"), "v"),
	}
	if d.License == "" {
		if m := licenseLineRe.FindStringSubmatch(body); m != nil {
			d.License = markdown.Clean(m[1])
		} else if m := licensedRe.FindStringSubmatch(body); m != nil {
			d.License = strings.TrimSpace(m[1])
		}
	}
	if d.Version == "" {
		if m := versionRe.FindStringSubmatch(body); m != nil {
			d.Version = m[1]
		} else if m := semverRe.FindStringSubmatch(body); m != nil {
			d.Version = m[1]
		}
	}
	return d
}

func extractRelationships(body string, meta content.Metadata) []Relationship {
	var out []Relationship
	seen := map[string]bool{}
	add := func(kind, target string) {
		target = markdown.Truncate(strings.TrimSpace(markdown.StripFormatting(target)), 100)
		key := kind + "\x00" + strings.ToLower(target)
		if target == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, Relationship{Type: kind, Target: target})
	}

	for _, m := range relationshipRe.FindAllStringSubmatch(markdown.PlainText(body), -1) {
		add(relationshipTypes[strings.ToLower(m[1])], m[2])
	}
	for _, related := range meta.StringList("related_projects", "related") {
		add("related_to", related)
	}
	return out
}

func extractMetrics(section, body string) map[string]Metric {
	text := section
	if text == "" {
		text = body
	}
	out := map[string]Metric{}
	for _, mp := range metricPatterns {
		m := mp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		unit := strings.ToLower(strings.ReplaceAll(m[2], " ", ""))
		if mp.name == "users" {
			switch unit {
			case "k":
				value *= 1_000
			case "m":
				value *= 1_000_000
			}
			unit = "users"
		}
		out[mp.name] = Metric{Value: value, Unit: unit}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
