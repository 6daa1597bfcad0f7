package parsers

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/markdown"
)

// Idea statuses.
const (
	IdeaDraft         = "draft"
	IdeaHypothesis    = "hypothesis"
	IdeaExperimenting = "experimenting"
	IdeaValidating    = "validating"
	IdeaPublished     = "published"
	IdeaConcluded     = "concluded"
)

// Score bounds and the starting value when metadata gives none.
const (
	MinScore  = 1.0
	MaxScore  = 10.0
	BaseScore = 5.0
)

// Priority buckets by the mean of feasibility and impact.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Fixed technology annotations for ideas. No signal in the write-up
// distinguishes these per technology, so every entry gets the same values.
const (
	DefaultRequiredExpertise = "intermediate"
	DefaultAvailability      = "available"
	DefaultLearningCurve     = "moderate"
	DefaultCostFactor        = "low"
	DefaultRiskProbability   = "medium"
	DefaultRiskImpact        = "medium"
)

// Resource categories.
const (
	ResourceHuman     = "human"
	ResourceTechnical = "technical"
	ResourceFinancial = "financial"
	ResourceOther     = "other"
)

// Phase is one numbered step of an idea's plan.
type Phase struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Risk is a risk named in the write-up.
type Risk struct {
	Description string `json:"description"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
}

// Idea is the main entity of research or product idea content.
type Idea struct {
	Title                   string              `json:"title"`
	Slug                    string              `json:"slug"`
	Abstract                string              `json:"abstract"`
	ProblemStatement        string              `json:"problem_statement,omitempty"`
	Motivation              string              `json:"motivation,omitempty"`
	Methodology             string              `json:"methodology,omitempty"`
	ExpectedOutcome         string              `json:"expected_outcome,omitempty"`
	Status                  string              `json:"status"`
	EstimatedDurationMonths int                 `json:"estimated_duration_months,omitempty"`
	CollaborationNeeded     bool                `json:"collaboration_needed"`
	FundingRequired         bool                `json:"funding_required"`
	FeasibilityScore        float64             `json:"feasibility_score"`
	ImpactScore             float64             `json:"impact_score"`
	InnovationScore         float64             `json:"innovation_score"`
	Priority                string              `json:"priority"`
	Phases                  []Phase             `json:"phases,omitempty"`
	Resources               map[string][]string `json:"resources,omitempty"`
	Milestones              []string            `json:"milestones,omitempty"`
	Risks                   []Risk              `json:"risks,omitempty"`
	Dependencies            []string            `json:"dependencies,omitempty"`
	Budget                  *float64            `json:"budget,omitempty"`
	RevenuePotential        *float64            `json:"revenue_potential,omitempty"`

	durationGiven bool
}

// Kind returns TypeIdea.
func (i *Idea) Kind() content.Type {
	return content.TypeIdea
}

// Identity returns the idea title and slug.
func (i *Idea) Identity() (title, slug string) {
	return i.Title, i.Slug
}

// Empty reports whether no descriptive field was extracted.
func (i *Idea) Empty() bool {
	return i.Title == "" && i.Abstract == "" && i.ProblemStatement == "" && i.Methodology == ""
}

var ideaStatusKeywords = []struct {
	status   string
	keywords []string
}{
	{IdeaHypothesis, []string{"hypothesis", "hypothesized", "theory"}},
	{IdeaExperimenting, []string{"experimenting", "experiment", "prototyping", "prototype", "in progress", "testing"}},
	{IdeaValidating, []string{"validating", "validation", "review", "evaluating"}},
	{IdeaPublished, []string{"published", "shared", "released"}},
	{IdeaConcluded, []string{"concluded", "done", "completed", "closed", "abandoned", "archived"}},
	{IdeaDraft, []string{"draft", "idea", "new", "proposed", "brainstorm"}},
}

type scoreAdjustment struct {
	delta    float64
	keywords []string
}

var (
	impactAdjustments = []scoreAdjustment{
		{+2, []string{"revolutionary", "game-changing", "game changing", "transformative", "paradigm shift"}},
		{+1, []string{"significant", "major", "widespread", "millions of"}},
		{-1, []string{"minor", "incremental", "niche"}},
	}
	feasibilityAdjustments = []scoreAdjustment{
		{+1, []string{"proven", "straightforward", "existing tools", "off-the-shelf", "simple"}},
		{-1, []string{"complex", "unproven", "uncertain", "challenging"}},
		{-2, []string{"impossible", "breakthrough required", "no known solution"}},
	}
	innovationAdjustments = []scoreAdjustment{
		{+2, []string{"novel", "unprecedented", "first of its kind", "never been done"}},
		{+1, []string{"new approach", "unique", "innovative"}},
		{-1, []string{"conventional", "standard approach", "well-known", "existing solutions"}},
	}
)

var resourceKeywords = []keywordEntry{
	{ResourceHuman, []string{"developer", "developers", "engineer", "engineers", "designer", "researcher", "researchers", "team", "people", "hire", "volunteer", "volunteers", "expert", "experts", "mentor"}},
	{ResourceTechnical, []string{"server", "servers", "gpu", "gpus", "cloud", "hardware", "software", "compute", "storage", "database", "api", "infrastructure", "license", "dataset"}},
	{ResourceFinancial, []string{"budget", "funding", "money", "grant", "cost", "costs", "investment", "capital"}},
}

var (
	durationRangeRe  = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(?:-|–|—|to)\s*(-?\d+(?:\.\d+)?)\s*(months?|mos?|years?|yrs?|weeks?|wks?)?`)
	durationSingleRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(months?|mos?|years?|yrs?|weeks?|wks?)?`)
	budgetLabelRe    = regexp.MustCompile(`(?i)\bbudget\b\s*(?:of|is|:|=)?\s*(-)?\s*\$?\s*(\d[\d,]*(?:\.\d+)?)\s*([km]\b)?`)
	dollarRe         = regexp.MustCompile(`(?i)(-)?\$\s*(\d[\d,]*(?:\.\d+)?)\s*([km]\b)?`)
	revenueRe        = regexp.MustCompile(`(?i)\brevenue(?:\s+potential)?\b[^$\d\n]{0,30}(-)?\$?\s*(\d[\d,]*(?:\.\d+)?)\s*([km]\b)?`)
)

// IdeaParser parses research and product ideas.
type IdeaParser struct {
	contentDir string
}

// NewIdeaParser returns a parser for ideas under contentDir.
func NewIdeaParser(contentDir string) content.Parser {
	return &IdeaParser{contentDir: contentDir}
}

// ContentType returns TypeIdea.
func (p *IdeaParser) ContentType() content.Type {
	return content.TypeIdea
}

// ExtractMainEntity builds an Idea from frontmatter, falling back to the
// body sections for the problem statement, abstract and methodology.
func (p *IdeaParser) ExtractMainEntity(src *content.Source, rec *content.Extracted) error {
	meta := src.Metadata
	body := src.Body
	idea := &Idea{}
	idea.Title = entityTitle(src)
	idea.Slug = entitySlug(src, idea.Title)

	idea.Abstract = meta.String("abstract", "summary", "description")
	if idea.Abstract == "" {
		idea.Abstract = firstParagraph(markdown.ExtractFirstSection(body, "Abstract", "Summary", "Overview"))
	}
	if idea.Abstract == "" {
		idea.Abstract = markdown.Truncate(firstParagraph(body), 500)
	}
	idea.ProblemStatement = firstNonEmpty(meta.String("problem", "problem_statement"), markdown.ExtractFirstSection(body, "Problem Statement", "Problem", "The Problem"))
	idea.Motivation = firstNonEmpty(meta.String("motivation"), markdown.ExtractFirstSection(body, "Motivation", "Why", "Background"))
	idea.Methodology = markdown.ExtractFirstSection(body, "Solution Overview", "Proposed Solution", "Solution", "Approach")
	if idea.Methodology == "" {
		idea.Methodology = markdown.ExtractFirstSection(body, "Technical Approach", "Implementation", "Methodology")
	}
	idea.ExpectedOutcome = markdown.ExtractFirstSection(body, "Expected Outcomes", "Expected Outcome", "Deliverables", "Results")

	idea.Status = ideaStatus(meta.String("status", "stage"))
	idea.EstimatedDurationMonths, idea.durationGiven = ideaDuration(meta)

	if open, ok := meta.Bool("collaborationOpen", "collaboration_open", "collaboration_needed", "collaboration"); ok {
		idea.CollaborationNeeded = open
	}
	idea.FundingRequired = fundingRequired(meta)

	lowered := strings.ToLower(markdown.PlainText(body))
	idea.FeasibilityScore = ideaScore(meta, lowered, feasibilityAdjustments, "feasibility_score", "feasibility")
	idea.ImpactScore = ideaScore(meta, lowered, impactAdjustments, "impact_score", "impact")
	idea.InnovationScore = ideaScore(meta, lowered, innovationAdjustments, "innovation_score", "innovation")
	idea.Priority = Priority(idea.FeasibilityScore, idea.ImpactScore)

	idea.Phases = extractPhases(markdown.ExtractFirstSection(body, "Phases", "Implementation Plan", "Plan", "Roadmap"))
	idea.Resources = categorizeResources(markdown.ListItems(markdown.ExtractFirstSection(body, "Resources Needed", "Resources", "Requirements")))
	idea.Milestones = markdown.ListItems(markdown.ExtractFirstSection(body, "Milestones"))
	for _, r := range markdown.ListItems(markdown.ExtractFirstSection(body, "Risks", "Risk Assessment", "Risk")) {
		idea.Risks = append(idea.Risks, Risk{Description: markdown.Clean(r), Probability: DefaultRiskProbability, Impact: DefaultRiskImpact})
	}
	idea.Dependencies = append(meta.StringList("dependencies"), markdown.ListItems(markdown.ExtractFirstSection(body, "Dependencies", "Prerequisites"))...)

	if v, ok := meta.Float("budget", "estimated_budget"); ok {
		idea.Budget = &v
	} else if v, ok := moneyFrom(budgetLabelRe, body); ok {
		idea.Budget = &v
	} else if v, ok := moneyFrom(dollarRe, markdown.ExtractFirstSection(body, "Budget", "Funding", "Financial", "Costs")); ok {
		idea.Budget = &v
	}
	if v, ok := meta.Float("revenue_potential", "revenue"); ok {
		idea.RevenuePotential = &v
	} else if v, ok := moneyFrom(revenueRe, body); ok {
		idea.RevenuePotential = &v
	}

	rec.MainEntity = idea

	addMetadataTechnologies(rec, src, "technologies", "tech_stack", "tech")
	techText := markdown.ExtractFirstSection(body, "Technology", "Technologies", "Technical Requirements", "Tech Stack", "Implementation")
	if techText == "" {
		techText = body
	}
	addContentTechnologies(rec, techText, body)
	for i := range rec.Technologies {
		t := &rec.Technologies[i]
		t.Proficiency = ""
		t.Expertise = DefaultRequiredExpertise
		t.Availability = DefaultAvailability
		t.LearningCurve = DefaultLearningCurve
		t.CostFactor = DefaultCostFactor
	}

	addBodyImages(rec, body, nil)
	return nil
}

// Validate requires a title and body, checks scores against MinScore and
// MaxScore and that durations are positive.
func (p *IdeaParser) Validate(src *content.Source, rec *content.Extracted) {
	idea, ok := rec.MainEntity.(*Idea)
	if !ok {
		rec.AddError("missing idea entity")
		return
	}
	if idea.Title == "" {
		rec.AddError("missing title")
	}
	if strings.TrimSpace(src.Body) == "" {
		rec.AddError("missing content")
	}
	if idea.ProblemStatement == "" {
		rec.AddWarning("missing problem statement")
	}
	if idea.Methodology == "" {
		rec.AddWarning("missing solution overview")
	}

	// Scores are checked as given; derived scores are always clamped.
	for _, field := range [][]string{
		{"feasibility_score", "feasibility"},
		{"impact_score", "impact"},
		{"innovation_score", "innovation"},
	} {
		v, ok := src.Metadata.Float(field...)
		if !ok {
			continue
		}
		if err := validation.Validate(v, scoreRule); err != nil {
			rec.AddError(fmt.Sprintf("%s %v out of range: %v", field[0], v, err))
		}
	}
	if idea.Budget != nil && *idea.Budget < 0 {
		rec.AddError(fmt.Sprintf("budget %v is negative", *idea.Budget))
	}
	if idea.durationGiven && idea.EstimatedDurationMonths <= 0 {
		rec.AddError(fmt.Sprintf("estimated duration %d months must be positive", idea.EstimatedDurationMonths))
	}
}

// Priority buckets the mean of feasibility and impact.
func Priority(feasibility, impact float64) string {
	avg := (feasibility + impact) / 2
	switch {
	case avg >= 8:
		return PriorityHigh
	case avg >= 6:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ParseDurationMonths reads "6-8 months" (mean of the range), "12", "2 years"
// or "6 weeks" as a whole number of months.
func ParseDurationMonths(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	var value float64
	var unit string
	if m := durationRangeRe.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		value, unit = (lo+hi)/2, m[3]
	} else if m := durationSingleRe.FindStringSubmatch(s); m != nil {
		value, _ = strconv.ParseFloat(m[1], 64)
		unit = m[2]
	} else {
		return 0, false
	}
	switch {
	case strings.HasPrefix(unit, "y"):
		value *= 12
	case strings.HasPrefix(unit, "w"):
		value = value * 12 / 52
	}
	months := int(math.Round(value))
	if value > 0 && months < 1 {
		months = 1
	}
	return months, true
}

func ideaDuration(meta content.Metadata) (int, bool) {
	v, ok := meta.Lookup("estimated_duration_months", "estimated_duration", "duration", "timeline")
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case float64:
		return int(math.Round(val)), true
	}
	return ParseDurationMonths(meta.String("estimated_duration_months", "estimated_duration", "duration", "timeline"))
}

func ideaStatus(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return IdeaDraft
	}
	for _, entry := range ideaStatusKeywords {
		for _, kw := range entry.keywords {
			if containsWord(lowered, kw) {
				return entry.status
			}
		}
	}
	return IdeaDraft
}

func fundingRequired(meta content.Metadata) bool {
	switch strings.ToLower(meta.String("fundingStatus", "funding_status")) {
	case "seeking", "needed", "required":
		return true
	case "funded", "none", "not needed":
		return false
	}
	required, _ := meta.Bool("funding_required", "funding_needed")
	return required
}

func ideaScore(meta content.Metadata, lowered string, adjustments []scoreAdjustment, keys ...string) float64 {
	score, ok := meta.Float(keys...)
	if !ok {
		score = BaseScore
	}
	for _, adj := range adjustments {
		if keywordHits(lowered, adj.keywords) > 0 {
			score += adj.delta
		}
	}
	return clampFloat(score, MinScore, MaxScore)
}

func extractPhases(section string) []Phase {
	items := markdown.NumberedItems(section)
	if len(items) == 0 {
		items = markdown.ListItems(section)
	}
	phases := make([]Phase, 0, len(items))
	for i, item := range items {
		name, desc := splitLabel(markdown.Clean(item))
		phases = append(phases, Phase{Number: i + 1, Name: name, Description: desc})
	}
	if len(phases) == 0 {
		return nil
	}
	return phases
}

// splitLabel splits "Name: description" or "Name - description".
func splitLabel(item string) (string, string) {
	for _, sep := range []string{": ", " - ", " – ", " — "} {
		if i := strings.Index(item, sep); i > 0 {
			return strings.TrimSpace(item[:i]), strings.TrimSpace(item[i+len(sep):])
		}
	}
	return item, ""
}

func categorizeResources(items []string) map[string][]string {
	if len(items) == 0 {
		return nil
	}
	out := map[string][]string{}
	for _, item := range items {
		clean := markdown.Clean(item)
		lowered := strings.ToLower(clean)
		category := ResourceOther
		for _, entry := range resourceKeywords {
			if keywordHits(lowered, entry.keywords) > 0 || (entry.value == ResourceFinancial && strings.Contains(lowered, "$")) {
				category = entry.value
				break
			}
		}
		out[category] = append(out[category], clean)
	}
	return out
}

func moneyFrom(re *regexp.Regexp, text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[3]) {
	case "k":
		v *= 1_000
	case "m":
		v *= 1_000_000
	}
	if m[1] == "-" {
		v = -v
	}
	return v, true
}
