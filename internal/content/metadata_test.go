package content

import (
	"reflect"
	"testing"
	"time"
)

func TestMetadataLookupSynonyms(t *testing.T) {
	m := Metadata{"summary": "", "excerpt": "Short", "count": 3}
	if got := m.String("summary", "excerpt"); got != "Short" {
		t.Errorf("String() = %q, want Short", got)
	}
	if got := m.String("count"); got != "3" {
		t.Errorf("String(count) = %q", got)
	}
	if m.Has("missing") {
		t.Error("Has(missing) = true")
	}
}

func TestMetadataStringList(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want []string
	}{
		{"yaml list", []any{"Go", " Redis ", ""}, []string{"Go", "Redis"}},
		{"comma string", "Go, Redis,,Docker", []string{"Go", "Redis", "Docker"}},
		{"named mappings", []any{map[string]any{"name": "React"}, "Vue"}, []string{"React", "Vue"}},
		{"scalar number", 42, []string{"42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Metadata{"v": tt.v}.StringList("v")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StringList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetadataBoolAndFloat(t *testing.T) {
	m := Metadata{"a": true, "b": "yes", "c": "nope", "n": 7, "f": "7.5"}
	if v, ok := m.Bool("a"); !ok || !v {
		t.Error("Bool(a)")
	}
	if v, ok := m.Bool("b"); !ok || !v {
		t.Error("Bool(b)")
	}
	if _, ok := m.Bool("c"); ok {
		t.Error("Bool(c) should not parse")
	}
	if v, ok := m.Float("n"); !ok || v != 7 {
		t.Errorf("Float(n) = %v, %v", v, ok)
	}
	if v, ok := m.Int("f"); !ok || v != 7 {
		t.Errorf("Int(f) = %v, %v", v, ok)
	}
}

func TestMetadataDate(t *testing.T) {
	m := Metadata{
		"yaml":  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"text":  "March 5, 2024",
		"bogus": "whenever",
	}
	if d, ok := m.Date("yaml"); !ok || d.Day() != 1 {
		t.Errorf("Date(yaml) = %v, %v", d, ok)
	}
	if d, ok := m.Date("text"); !ok || d.Day() != 5 {
		t.Errorf("Date(text) = %v, %v", d, ok)
	}
	if _, ok := m.Date("bogus"); ok {
		t.Error("Date(bogus) should fail")
	}
}

func TestMetadataMergeOverlay(t *testing.T) {
	base := Metadata{"title": "Main", "links": map[string]any{"github": "g", "demo": "d"}}
	over := Metadata{"title": "Config", "links": map[string]any{"demo": "d2"}, "featured": true}
	got := base.Merge(over)

	if got.String("title") != "Config" {
		t.Errorf("title = %q", got.String("title"))
	}
	links := got.Map("links")
	if links.String("github") != "g" || links.String("demo") != "d2" {
		t.Errorf("links = %v", links)
	}
	if base.String("title") != "Main" {
		t.Error("Merge mutated the receiver")
	}
}
