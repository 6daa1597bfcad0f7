package parsers

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/dates"
	"github.com/aidanlsb/quill/internal/markdown"
	"github.com/aidanlsb/quill/internal/techcat"
)

// Contact holds the ways to reach a resume's owner.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

func (c Contact) empty() bool { return c == Contact{} }

// Experience is one position held.
type Experience struct {
	Role       string     `json:"role"`
	Company    string     `json:"company,omitempty"`
	Start      *time.Time `json:"start_date,omitempty"`
	End        *time.Time `json:"end_date,omitempty"`
	Current    bool       `json:"current"`
	Highlights []string   `json:"highlights,omitempty"`
}

// Education is one degree or course of study.
type Education struct {
	Institution string     `json:"institution"`
	Degree      string     `json:"degree,omitempty"`
	Start       *time.Time `json:"start_date,omitempty"`
	End         *time.Time `json:"end_date,omitempty"`
}

// Resume is the main entity of resume or CV content.
type Resume struct {
	Name                  string       `json:"name"`
	Slug                  string       `json:"slug"`
	Headline              string       `json:"headline,omitempty"`
	Contact               Contact      `json:"contact"`
	Summary               string       `json:"summary,omitempty"`
	Experience            []Experience `json:"experience,omitempty"`
	Education             []Education  `json:"education,omitempty"`
	Skills                []string     `json:"skills,omitempty"`
	Certifications        []string     `json:"certifications,omitempty"`
	Languages             []string     `json:"languages,omitempty"`
	TotalExperienceMonths int          `json:"total_experience_months"`
}

// Kind returns TypeResume.
func (r *Resume) Kind() content.Type {
	return content.TypeResume
}

// Identity returns the person's name and slug.
func (r *Resume) Identity() (title, slug string) {
	return r.Name, r.Slug
}

// Empty reports whether the resume has no name, summary, experience or skills.
func (r *Resume) Empty() bool {
	return r.Name == "" && r.Summary == "" && len(r.Experience) == 0 && len(r.Skills) == 0
}

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	linkedinRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9_\-]+/?`)
	githubRe   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_\-]+/?`)
	locationRe = regexp.MustCompile(`(?im)^\s*(?:\*\*)?location(?:\*\*)?\s*:\s*(.+?)\s*$`)
	websiteRe  = regexp.MustCompile(`(?im)^\s*(?:\*\*)?(?:website|portfolio|site)(?:\*\*)?\s*:\s*(\S+)\s*$`)

	// roleSeparators split "Role at Company" style headings.
	roleSeparators = []string{" at ", " @ ", " - ", " – ", " — ", " | ", ", "}
)

// ResumeParser parses resumes and CVs.
type ResumeParser struct {
	contentDir string
}

// NewResumeParser returns a parser for resumes under contentDir.
func NewResumeParser(contentDir string) content.Parser {
	return &ResumeParser{contentDir: contentDir}
}

// ContentType returns TypeResume.
func (p *ResumeParser) ContentType() content.Type {
	return content.TypeResume
}

// ExtractMainEntity builds a Resume from frontmatter and body sections.
// Contact details missing from frontmatter are scanned from the body.
func (p *ResumeParser) ExtractMainEntity(src *content.Source, rec *content.Extracted) error {
	meta := src.Metadata
	body := src.Body
	r := &Resume{}
	r.Name = entityTitle(src, "name", "title", "full_name")
	r.Slug = entitySlug(src, r.Name)
	r.Headline = meta.String("headline", "role", "position", "tagline")
	if r.Headline == "" {
		r.Headline = headlineAfterName(body)
	}
	r.Contact = extractContact(meta, body)
	r.Summary = firstNonEmpty(meta.String("summary", "profile", "about"),
		markdown.ExtractFirstSection(body, "Summary", "Profile", "About", "About Me", "Objective"))

	r.Experience = extractExperience(markdown.ExtractFirstSection(body, "Experience", "Work Experience", "Professional Experience", "Employment"))
	r.Education = extractEducation(markdown.ExtractFirstSection(body, "Education"))
	r.TotalExperienceMonths = totalMonths(r.Experience, src.Now)

	var skills []string
	skills = append(skills, meta.StringList("skills")...)
	for _, item := range markdown.ListItems(markdown.ExtractFirstSection(body, "Skills", "Technical Skills", "Technologies")) {
		// "Languages: Go, Python" lists keep only the values.
		if i := strings.Index(item, ":"); i >= 0 {
			item = item[i+1:]
		}
		skills = append(skills, markdown.SplitInline(item)...)
	}
	seen := map[string]bool{}
	for _, s := range skills {
		name := techcat.Canonical(markdown.Clean(s))
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		r.Skills = append(r.Skills, name)
		rec.AddTechnology(content.Technology{
			Name:        name,
			Category:    techcat.Categorize(name),
			Source:      SourceContent,
			Proficiency: techcat.EstimateProficiency(body, name),
		})
	}

	r.Certifications = cleanItems(append(meta.StringList("certifications"),
		markdown.ListItems(markdown.ExtractFirstSection(body, "Certifications", "Certificates", "Licenses"))...))
	r.Languages = cleanItems(append(meta.StringList("spoken_languages", "languages"),
		markdown.ListItems(markdown.ExtractFirstSection(body, "Languages", "Spoken Languages"))...))

	rec.MainEntity = r
	addBodyImages(rec, body, nil)
	return nil
}

// Validate requires a name and checks the email and profile URLs.
func (p *ResumeParser) Validate(src *content.Source, rec *content.Extracted) {
	r, ok := rec.MainEntity.(*Resume)
	if !ok {
		rec.AddError("missing resume entity")
		return
	}
	if r.Name == "" {
		rec.AddError("missing name")
	}
	if r.Contact.Email != "" {
		if err := validation.Validate(r.Contact.Email, emailRule); err != nil {
			rec.AddError(fmt.Sprintf("invalid email %q: %v", r.Contact.Email, err))
		}
	}
	checkURL(rec, "website", r.Contact.Website)
	if r.Contact.empty() {
		rec.AddWarning("missing contact information")
	}
	if len(r.Experience) == 0 {
		rec.AddWarning("no experience entries found")
	}
	if len(r.Skills) == 0 {
		rec.AddWarning("no skills found")
	}
	for _, e := range r.Experience {
		if e.Start != nil && e.End != nil && e.Start.After(*e.End) {
			rec.AddError(fmt.Sprintf("experience %q starts %s after it ends %s", e.Role, dates.Format(*e.Start), dates.Format(*e.End)))
		}
	}
}

func headlineAfterName(body string) string {
	lines := markdown.ProseLines(body)
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "# ") {
			continue
		}
		for _, next := range lines[i+1:] {
			t := strings.TrimSpace(next)
			if t == "" {
				continue
			}
			if strings.HasPrefix(t, "#") || emailRe.MatchString(t) {
				return ""
			}
			return markdown.Clean(t)
		}
	}
	return ""
}

func extractContact(meta content.Metadata, body string) Contact {
	nested := meta.Map("contact")
	get := func(keys ...string) string {
		return firstNonEmpty(meta.String(keys...), nested.String(keys...))
	}
	c := Contact{
		Email:    get("email"),
		Phone:    get("phone", "telephone"),
		Location: get("location", "city"),
		Website:  get("website", "url", "homepage"),
		LinkedIn: get("linkedin"),
		GitHub:   get("github"),
	}
	if c.Email == "" {
		c.Email = emailRe.FindString(body)
	}
	if c.Phone == "" {
		c.Phone = findPhone(body)
	}
	if c.LinkedIn == "" {
		c.LinkedIn = linkedinRe.FindString(body)
	}
	if c.GitHub == "" {
		c.GitHub = githubRe.FindString(body)
	}
	if c.Location == "" {
		if m := locationRe.FindStringSubmatch(body); m != nil {
			c.Location = markdown.Clean(m[1])
		}
	}
	if c.Website == "" {
		if m := websiteRe.FindStringSubmatch(body); m != nil {
			c.Website = m[1]
		}
	}
	return c
}

// findPhone returns the first phone-shaped run that is not a date or a
// date range.
func findPhone(body string) string {
	for _, m := range phoneRe.FindAllString(body, -1) {
		m = strings.TrimSpace(m)
		if _, ok := dates.ParseRange(m); ok {
			continue
		}
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 7 {
			return m
		}
	}
	return ""
}

// extractExperience reads one entry per sub-heading. The first non-empty line
// under the heading that parses as a date range dates the entry; list items
// become highlights.
func extractExperience(section string) []Experience {
	if section == "" {
		return nil
	}
	var out []Experience
	for _, sec := range markdown.Sections(section) {
		role, company := splitRole(sec.Title)
		e := Experience{Role: role, Company: company}
		for _, line := range strings.Split(sec.Content, "\n") {
			t := markdown.Clean(strings.Trim(strings.TrimSpace(line), "*_"))
			if t == "" || strings.HasPrefix(t, "-") {
				continue
			}
			if r, ok := dates.ParseRange(t); ok {
				e.Start, e.End, e.Current = r.Start, r.End, r.Ongoing
				break
			}
		}
		e.Highlights = cleanItems(markdown.ListItems(sec.Content))
		out = append(out, e)
	}
	return out
}

func extractEducation(section string) []Education {
	if section == "" {
		return nil
	}
	var out []Education
	for _, sec := range markdown.Sections(section) {
		degree, institution := splitRole(sec.Title)
		if institution == "" {
			institution, degree = degree, ""
		}
		ed := Education{Institution: institution, Degree: degree}
		for _, line := range strings.Split(sec.Content, "\n") {
			t := markdown.Clean(line)
			if t == "" {
				continue
			}
			if r, ok := dates.ParseRange(t); ok {
				ed.Start, ed.End = r.Start, r.End
				break
			}
			if ed.Degree == "" {
				ed.Degree = t
			}
		}
		out = append(out, ed)
	}
	if len(out) == 0 {
		for _, item := range markdown.ListItems(section) {
			out = append(out, Education{Institution: markdown.Clean(item)})
		}
	}
	return out
}

func splitRole(title string) (string, string) {
	title = markdown.Clean(title)
	for _, sep := range roleSeparators {
		if i := strings.Index(title, sep); i > 0 {
			return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+len(sep):])
		}
	}
	return title, ""
}

// totalMonths sums the length of every dated position. Ongoing positions run
// to now.
func totalMonths(entries []Experience, now time.Time) int {
	total := 0
	for _, e := range entries {
		if e.Start == nil {
			continue
		}
		end := now
		if e.End != nil {
			end = *e.End
		}
		months := (end.Year()-e.Start.Year())*12 + int(end.Month()) - int(e.Start.Month())
		if months > 0 {
			total += months
		}
	}
	return total
}

func cleanItems(items []string) []string {
	var out []string
	for _, item := range items {
		if c := markdown.Clean(item); c != "" {
			out = append(out, c)
		}
	}
	return out
}
