package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	out, err := RenderMarkdown("# Heading\n\nSome body text.", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected a single trailing newline, got %q", out)
	}
	if !strings.Contains(out, "Heading") {
		t.Fatalf("heading text missing from output: %q", out)
	}
}

func TestRenderMarkdownDefaultsWidthWhenNonPositive(t *testing.T) {
	out, err := RenderMarkdown("hello", 0)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatal("expected non-empty rendered output")
	}
}

func TestPreviewStyleCodeTheme(t *testing.T) {
	orig := codeTheme
	t.Cleanup(func() { codeTheme = orig })

	ConfigureCodeTheme("")
	if got := previewStyle().CodeBlock.Theme; got != defaultCodeTheme {
		t.Errorf("default theme = %q", got)
	}

	ConfigureCodeTheme(" dracula ")
	if got := previewStyle().CodeBlock.Theme; got != "dracula" {
		t.Errorf("configured theme = %q", got)
	}

	style := previewStyle()
	if style.H1.Underline == nil || !*style.H1.Underline {
		t.Error("expected H1 headings to be underlined")
	}
}

func TestWrapWidth(t *testing.T) {
	tests := []struct {
		term int
		want int
	}{
		{term: 200, want: 100},
		{term: 84, want: 80},
		{term: 10, want: 20},
	}
	for _, tt := range tests {
		if got := NewDisplayContextWithWidth(tt.term).WrapWidth(); got != tt.want {
			t.Errorf("WrapWidth(%d) = %d, want %d", tt.term, got, tt.want)
		}
	}
}
