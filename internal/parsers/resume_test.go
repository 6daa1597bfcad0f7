package parsers

import (
	"reflect"
	"testing"

	"github.com/aidanlsb/quill/internal/dates"
	"github.com/aidanlsb/quill/internal/testutil"
)

const sampleResume = `---
name: Jane Doe
---
# Jane Doe
Senior Backend Engineer

Email: jane@example.com | Phone: +1 (555) 123-4567
Location: Berlin
Website: https://jane.dev
github.com/janedoe

## Summary
Backend engineer.

## Experience

### Staff Engineer at Acme
Jan 2020 - Present
- Led the Go migration

### Engineer at Beta Corp
Mar 2017 - Dec 2019
- Built internal APIs

## Education

### BSc Computer Science, MIT
2013 - 2017

## Skills
- Languages: Go, Python
- Docker

## Languages
- English
- German
`

func TestResumeParserExtracts(t *testing.T) {
	rec := parseRaw(t, NewResumeParser(""), "resume.md", sampleResume)
	r := rec.MainEntity.(*Resume)

	if r.Name != "Jane Doe" || r.Slug != "jane-doe" || r.Headline != "Senior Backend Engineer" {
		t.Errorf("name/slug/headline = %q %q %q", r.Name, r.Slug, r.Headline)
	}
	want := Contact{
		Email:    "jane@example.com",
		Phone:    "+1 (555) 123-4567",
		Location: "Berlin",
		Website:  "https://jane.dev",
		GitHub:   "github.com/janedoe",
	}
	if r.Contact != want {
		t.Errorf("contact = %+v, want %+v", r.Contact, want)
	}
	if r.Summary != "Backend engineer." {
		t.Errorf("summary = %q", r.Summary)
	}

	if len(r.Experience) != 2 {
		t.Fatalf("experience = %+v", r.Experience)
	}
	first := r.Experience[0]
	if first.Role != "Staff Engineer" || first.Company != "Acme" || !first.Current || first.End != nil {
		t.Errorf("first experience = %+v", first)
	}
	if first.Start == nil || dates.Format(*first.Start) != "2020-01-01" {
		t.Errorf("first start = %v", first.Start)
	}
	second := r.Experience[1]
	if second.Company != "Beta Corp" || second.End == nil || dates.Format(*second.End) != "2019-12-01" {
		t.Errorf("second experience = %+v", second)
	}
	testutil.AssertContains(t, second.Highlights, "Built internal APIs")
	// 65 months at Acme up to 2025-06 plus 33 at Beta Corp.
	if r.TotalExperienceMonths != 98 {
		t.Errorf("total months = %d, want 98", r.TotalExperienceMonths)
	}

	if len(r.Education) != 1 || r.Education[0].Institution != "MIT" || r.Education[0].Degree != "BSc Computer Science" {
		t.Errorf("education = %+v", r.Education)
	}
	if !reflect.DeepEqual(r.Skills, []string{"Go", "Python", "Docker"}) {
		t.Errorf("skills = %v", r.Skills)
	}
	if !reflect.DeepEqual(r.Languages, []string{"English", "German"}) {
		t.Errorf("languages = %v", r.Languages)
	}
	if len(rec.Technologies) != 3 || rec.Technologies[2].Category != "devops_tools" {
		t.Errorf("technologies = %+v", rec.Technologies)
	}
	if !rec.Valid() || len(rec.ValidationWarnings) != 0 {
		t.Errorf("errors = %v, warnings = %v", rec.ValidationErrors, rec.ValidationWarnings)
	}
}

func TestResumeValidation(t *testing.T) {
	raw := "---\nemail: not-an-email\nwebsite: ftp://example.com\n---\n## Experience\n\n### Dev at X\n2022 - 2020\n"
	rec := parseRaw(t, NewResumeParser(""), "cv.md", raw)

	testutil.AssertMessage(t, rec.ValidationErrors, "missing name")
	testutil.AssertMessage(t, rec.ValidationErrors, "invalid email")
	testutil.AssertMessage(t, rec.ValidationErrors, "invalid website")
	testutil.AssertMessage(t, rec.ValidationErrors, `experience "Dev" starts 2022-01-01 after it ends 2020-01-01`)
	testutil.AssertMessage(t, rec.ValidationWarnings, "no skills found")

	bare := parseRaw(t, NewResumeParser(""), "cv.md", "# Someone\n")
	testutil.AssertMessage(t, bare.ValidationWarnings, "missing contact information")
	testutil.AssertMessage(t, bare.ValidationWarnings, "no experience entries found")
}

func TestFindPhoneSkipsDates(t *testing.T) {
	if got := findPhone("2019-01-01 - 2020-06-30\nCall 555 123 4567"); got != "555 123 4567" {
		t.Errorf("findPhone = %q", got)
	}
}
