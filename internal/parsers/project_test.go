package parsers

import (
	"testing"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/testutil"
)

const sampleProject = `---
title: Realtime Chat
description: A websocket chat server.
tech_stack: [Go, "PostgreSQL, Redis"]
github_url: https://github.com/acme/chat
start_date: 2023-01-10
end_date: 2024-02-01
featured: true
stars: 42
license: MIT
---
# Realtime Chat

## Overview
Chat server for small teams.

## Goals
- Low latency

## Implementation
We built the backend with Go and deployed it with Docker in production at scale.
It is forked from gorilla chat example. Inspired by IRC.

## Technical Implementation Notes
Connection fan-out uses channels.

## Performance
Average response time of 45 ms, uptime of 99.9% and 10k users.

## Lessons Learned
Backpressure matters.

## Roadmap
Federation.
`

func TestProjectParserExtracts(t *testing.T) {
	rec := parseRaw(t, NewProjectParser(""), "projects/chat.md", sampleProject)
	proj := rec.MainEntity.(*Project)

	if proj.Title != "Realtime Chat" || proj.Slug != "realtime-chat" {
		t.Errorf("title/slug = %q %q", proj.Title, proj.Slug)
	}
	if proj.Status != StatusCompleted {
		t.Errorf("status = %s, want COMPLETED (end date in the past)", proj.Status)
	}
	if !proj.Featured || proj.Stars != 42 || !proj.Public {
		t.Errorf("featured/stars/public = %v %d %v", proj.Featured, proj.Stars, proj.Public)
	}
	if proj.Details.License != "MIT" {
		t.Errorf("license = %q", proj.Details.License)
	}
	if proj.Details.Goals != "- Low latency" {
		t.Errorf("goals = %q", proj.Details.Goals)
	}
	if proj.Details.LessonsLearned != "Backpressure matters." || proj.Details.FutureEnhancements != "Federation." {
		t.Errorf("details = %+v", proj.Details)
	}
	// Both implementation sections concatenate into solutions.
	want := "We built the backend with Go and deployed it with Docker in production at scale.\nIt is forked from gorilla chat example. Inspired by IRC.\n\nConnection fan-out uses channels."
	if proj.Details.Solutions != want {
		t.Errorf("solutions = %q", proj.Details.Solutions)
	}

	names := map[string]string{}
	for _, tech := range rec.Technologies {
		names[tech.Name] = tech.Source
	}
	for _, n := range []string{"Go", "PostgreSQL", "Redis"} {
		if names[n] != SourceMetadata {
			t.Errorf("%s source = %q, want metadata", n, names[n])
		}
	}
	if names["Docker"] != SourceContent {
		t.Errorf("Docker source = %q, want content", names["Docker"])
	}
	if rec.Technologies[0].Category != "programming_languages" {
		t.Errorf("Go category = %s", rec.Technologies[0].Category)
	}

	rels := map[string]string{}
	for _, r := range proj.Relationships {
		rels[r.Type] = r.Target
	}
	if rels["forked_from"] != "gorilla chat example" || rels["inspired_by"] != "IRC" {
		t.Errorf("relationships = %+v", proj.Relationships)
	}

	if m := proj.Metrics["response_time"]; m.Value != 45 || m.Unit != "ms" {
		t.Errorf("response_time = %+v", m)
	}
	if m := proj.Metrics["uptime"]; m.Value != 99.9 || m.Unit != "%" {
		t.Errorf("uptime = %+v", m)
	}
	if m := proj.Metrics["users"]; m.Value != 10000 {
		t.Errorf("users = %+v", m)
	}

	if !rec.Valid() {
		t.Errorf("unexpected errors: %v", rec.ValidationErrors)
	}
}

func TestProjectValidationScenario(t *testing.T) {
	raw := "---\ntitle: \"X\"\ngithub_url: \"not-a-url\"\nstart_date: \"2024-01-01\"\nend_date: \"2023-01-01\"\n---\n"
	rec := parseRaw(t, NewProjectParser(""), "x.md", raw)

	testutil.AssertMessage(t, rec.ValidationErrors, "invalid github_url")
	testutil.AssertMessage(t, rec.ValidationErrors, "is after end_date")
	testutil.AssertMessage(t, rec.ValidationWarnings, "no technologies")
	if rec.Valid() {
		t.Error("record should be invalid")
	}
}

func TestProjectStatusAndType(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantStatus ProjectStatus
		wantType   string
	}{
		{"explicit paused", "---\ntitle: A\nstatus: On Hold\n---\n", StatusPaused, DefaultProjectType},
		{"explicit cancelled", "---\ntitle: A\nstatus: abandoned\n---\n", StatusCancelled, DefaultProjectType},
		{"no end date", "---\ntitle: A\n---\nA terminal tool with a CLI.", StatusActive, "CLI Tool"},
		{"future end date", "---\ntitle: A\nend_date: 2030-01-01\n---\n", StatusActive, DefaultProjectType},
		{"difficulty mapping", "---\ntitle: A\ndifficulty: Expert\n---\n", StatusActive, "Research Project"},
		{"explicit type", "---\ntitle: A\nproject_type: Game Engine\n---\n", StatusActive, "Game Engine"},
		{"ml keywords", "---\ntitle: A\n---\nTrains a neural network for image tagging.", StatusActive, "Machine Learning"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := parseRaw(t, NewProjectParser(""), "p.md", tt.raw)
			proj := rec.MainEntity.(*Project)
			if proj.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", proj.Status, tt.wantStatus)
			}
			if proj.ProjectType != tt.wantType {
				t.Errorf("type = %q, want %q", proj.ProjectType, tt.wantType)
			}
		})
	}
}

func TestProjectTitleFallbackAndFutureStart(t *testing.T) {
	rec := parseRaw(t, NewProjectParser(""), "p.md", "---\nstart_date: 2030-05-01\n---\n# Heading Title\n\nSome description paragraph.")
	proj := rec.MainEntity.(*Project)
	if proj.Title != "Heading Title" {
		t.Errorf("title = %q", proj.Title)
	}
	if proj.Description != "Some description paragraph." {
		t.Errorf("description = %q", proj.Description)
	}
	testutil.AssertMessage(t, rec.ValidationWarnings, "in the future")
}

func TestProjectFolder(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithProjectFolder("projects/engine",
			"---\ntitle: Engine\ndescription: Game engine.\n---\nBuilt with Rust.",
			"links:\n  demo: https://engine.example.com\nstatus: completed\n",
			"architecture-diagram.png").
		Build()

	svc := NewService(tree.Path, nil, contentOptions(), nil)
	rec, err := svc.ParseFile(tree.Join("projects/engine"), content.TypeProject)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	proj := rec.MainEntity.(*Project)
	if proj.DemoURL != "https://engine.example.com" || proj.Status != StatusCompleted {
		t.Errorf("config overlay not applied: %+v", proj)
	}
	if len(rec.Images) != 1 || rec.Images[0].Type != "diagram" {
		t.Errorf("images = %+v", rec.Images)
	}
	if !rec.HasTechnology("Rust") {
		t.Errorf("technologies = %+v", rec.Technologies)
	}
}
