package vault

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultPattern selects every markdown file at any depth.
const DefaultPattern = "**/*.md"

// CompilePattern compiles a slash-separated glob where "*" stays within one
// path segment and "**" spans segments. A leading "**/" also matches files
// at the root.
func CompilePattern(pattern string) (func(relPath string) bool, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	var rootLevel glob.Glob
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		rootLevel, err = glob.Compile(rest, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}
	return func(relPath string) bool {
		return g.Match(relPath) || (rootLevel != nil && rootLevel.Match(relPath))
	}, nil
}

// MatchesUnit reports whether a unit at rel would be selected by match. A
// folder unit is selected through the main file names it may carry.
func MatchesUnit(match func(relPath string) bool, rel string) bool {
	if strings.EqualFold(path.Ext(rel), ".md") {
		return match(rel)
	}
	for _, name := range []string{"index.md", "README.md", path.Base(rel) + ".md", "project.md", "idea.md"} {
		if match(path.Join(rel, name)) {
			return true
		}
	}
	return false
}
