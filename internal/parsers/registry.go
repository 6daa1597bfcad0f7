package parsers

import (
	"sort"
	"sync"

	"github.com/aidanlsb/quill/internal/content"
)

// Constructor builds a parser bound to a content directory.
type Constructor func(contentDir string) content.Parser

// Registry maps content types to parser constructors. Registration normally
// happens once at startup; lookups are safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	constructors map[content.Type]Constructor
	fallback     content.Type
}

// NewRegistry returns an empty registry that falls back to the project
// parser type for unknown types.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[content.Type]Constructor),
		fallback:     content.TypeProject,
	}
}

// DefaultRegistry returns a registry with the built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(content.TypeProject, NewProjectParser)
	r.Register(content.TypeBlog, NewBlogParser)
	r.Register(content.TypeIdea, NewIdeaParser)
	r.Register(content.TypeResume, NewResumeParser)
	return r
}

// Register adds or replaces the constructor for t.
func (r *Registry) Register(t content.Type, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[t] = c
}

// Has reports whether t has a registered constructor.
func (r *Registry) Has(t content.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[t]
	return ok
}

// Create returns a parser for t, or the fallback parser when t is not
// registered. It returns nil only when neither is registered.
func (r *Registry) Create(contentDir string, t content.Type) content.Parser {
	r.mu.RLock()
	c, ok := r.constructors[t]
	if !ok {
		c, ok = r.constructors[r.fallback]
	}
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return c(contentDir)
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []content.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]content.Type, 0, len(r.constructors))
	for t := range r.constructors {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
