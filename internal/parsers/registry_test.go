package parsers

import (
	"reflect"
	"testing"

	"github.com/aidanlsb/quill/internal/content"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	want := []content.Type{content.TypeBlog, content.TypeIdea, content.TypeProject, content.TypeResume}
	if got := reg.Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
	for _, typ := range want {
		p := reg.Create("/content", typ)
		if p == nil || p.ContentType() != typ {
			t.Errorf("Create(%s) = %v", typ, p)
		}
	}
}

func TestRegistryFallback(t *testing.T) {
	reg := DefaultRegistry()
	if reg.Has("recipe") {
		t.Fatal("unexpected recipe type")
	}
	p := reg.Create("", "recipe")
	if p == nil || p.ContentType() != content.TypeProject {
		t.Errorf("unknown type should fall back to project, got %v", p)
	}

	if NewRegistry().Create("", content.TypeBlog) != nil {
		t.Error("empty registry should return nil")
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	reg.Register("recipe", NewBlogParser)
	if !reg.Has("recipe") {
		t.Fatal("recipe not registered")
	}
	if p := reg.Create("", "recipe"); p == nil {
		t.Fatal("Create returned nil")
	}
	reg.Register("recipe", NewIdeaParser)
	if got := reg.Create("", "recipe").ContentType(); got != content.TypeIdea {
		t.Errorf("re-register should replace constructor, got %s", got)
	}
}
