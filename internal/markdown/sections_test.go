package markdown

import "testing"

const sampleBody = `# Project Title

Intro paragraph.

## Overview

This is the overview.

### Details

Nested details.

## Implementation Details

Built with Go.

` + "```" + `
## not a heading
` + "```" + `

#### Deep Dive

Deep content.

## Overview

Second overview wins in the map.
`

func TestExtractSection(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"includes subsections", "Overview", "This is the overview.\n\n### Details\n\nNested details."},
		{"prefix match", "implementation", "Built with Go.\n\n```\n## not a heading\n```\n\n#### Deep Dive\n\nDeep content."},
		{"deep level", "Deep Dive", "Deep content."},
		{"missing", "Roadmap", ""},
		{"level one ignored", "Project Title", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSection(sampleBody, tt.title); got != tt.want {
				t.Fatalf("ExtractSection(%q) =\n%q\nwant\n%q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSectionMap(t *testing.T) {
	got := SectionMap(sampleBody)

	if got["Overview"] != "Second overview wins in the map." {
		t.Fatalf("Overview = %q", got["Overview"])
	}
	if got["Details"] != "Nested details." {
		t.Fatalf("Details = %q", got["Details"])
	}
	if _, ok := got["not a heading"]; ok {
		t.Fatalf("heading inside code fence should be ignored")
	}
	if _, ok := got["Project Title"]; ok {
		t.Fatalf("level 1 heading should not be in section map")
	}
	if len(got) != 4 {
		t.Fatalf("len(SectionMap) = %d, want 4: %v", len(got), got)
	}
}

func TestSectionsOrder(t *testing.T) {
	sections := Sections(sampleBody)
	want := []string{"Overview", "Details", "Implementation Details", "Deep Dive", "Overview"}
	if len(sections) != len(want) {
		t.Fatalf("got %d sections, want %d", len(sections), len(want))
	}
	for i, s := range sections {
		if s.Title != want[i] {
			t.Errorf("sections[%d] = %q, want %q", i, s.Title, want[i])
		}
	}
}

func TestExtractFirstSection(t *testing.T) {
	body := "## Technical Approach\n\nUse graphs.\n"
	if got := ExtractFirstSection(body, "Solution Overview", "Technical Approach"); got != "Use graphs." {
		t.Fatalf("ExtractFirstSection() = %q", got)
	}
}

func TestFirstHeading(t *testing.T) {
	if got := FirstHeading(sampleBody, 1); got != "Project Title" {
		t.Fatalf("FirstHeading() = %q", got)
	}
	if got := FirstHeading("no headings", 1); got != "" {
		t.Fatalf("FirstHeading() = %q, want empty", got)
	}
}
