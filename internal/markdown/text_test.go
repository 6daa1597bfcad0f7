package markdown

import (
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**Bold** and *italic* text", "Bold and italic text"},
		{"See [the docs](https://x.dev) now", "See the docs now"},
		{"Use `go test`   please", "Use go test please"},
		{"ﬁne  ligature", "fine ligature"},
		{"snake_case stays", "snake_case stays"},
		{"an _emphasized_ word", "an emphasized word"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWordCountSkipsCodeAndHeadings(t *testing.T) {
	body := "# Title Here\n\none two three\n\n```go\nfunc main() {}\n```\n\nfour five\n"
	if got := WordCount(body); got != 5 {
		t.Fatalf("WordCount() = %d, want 5", got)
	}
}

func TestHashtags(t *testing.T) {
	body := "## Heading\n\nLearning #Golang and #rust-lang today. #golang again.\n\n```\n#notatag\n```\nInline `#code` is skipped.\n"
	got := Hashtags(body)
	want := []string{"golang", "rust-lang"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Hashtags() = %v, want %v", got, want)
	}
}

func TestListItems(t *testing.T) {
	content := "- first\n* second\n+ third\n1. fourth\n2) fifth\n- [x] done task\nnot a list\n"
	got := ListItems(content)
	want := []string{"first", "second", "third", "fourth", "fifth", "done task"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListItems() = %v, want %v", got, want)
	}
	if n := NumberedItems(content); len(n) != 2 {
		t.Fatalf("NumberedItems() = %v", n)
	}
}

func TestSplitInline(t *testing.T) {
	got := SplitInline("Go, **Rust** | Python; ")
	want := []string{"Go", "Rust", "Python"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitInline() = %v, want %v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Fatalf("Truncate() = %q", got)
	}
	if got := Truncate("abc", 3); got != "abc" {
		t.Fatalf("Truncate() = %q", got)
	}
}

func TestAnalyze(t *testing.T) {
	body := "## A\n\nPara with [link](http://x.y).\n\n- a\n- b\n\n```python\nprint(1)\n```\n\n```Go\nx\n```\n\n```python\ny\n```\n"
	s := Analyze(body)
	if s.Headings != 1 || s.Lists != 1 || s.ListItems != 2 || s.Links != 1 || s.CodeBlocks != 3 {
		t.Fatalf("Analyze() = %+v", s)
	}
	if !reflect.DeepEqual(s.CodeLanguages, []string{"python", "go"}) {
		t.Fatalf("CodeLanguages = %v", s.CodeLanguages)
	}
}
