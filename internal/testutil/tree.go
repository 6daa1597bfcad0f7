// Package testutil provides reusable test utilities for quill tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ContentTree represents a temporary content directory for testing.
type ContentTree struct {
	Path  string
	t     *testing.T
	files map[string]string
	dirs  []string
}

// NewContentTree creates a new content tree builder.
// Call Build() to create the actual directory.
func NewContentTree(t *testing.T) *ContentTree {
	t.Helper()
	return &ContentTree{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the tree.
// The path is relative to the tree root and uses forward slashes.
func (c *ContentTree) WithFile(path, content string) *ContentTree {
	c.files[path] = content
	return c
}

// WithDir adds an empty directory to the tree.
func (c *ContentTree) WithDir(path string) *ContentTree {
	c.dirs = append(c.dirs, path)
	return c
}

// WithProjectFolder adds a folder-based project: a main index.md, an
// optional config.yaml and the given image files under assets/images.
func (c *ContentTree) WithProjectFolder(dir, index, config string, images ...string) *ContentTree {
	c.files[dir+"/index.md"] = index
	if config != "" {
		c.files[dir+"/config.yaml"] = config
	}
	for _, img := range images {
		c.files[dir+"/assets/images/"+img] = "img:" + img
	}
	return c
}

// Build creates the directory and all configured files.
// Returns the ContentTree for method chaining.
func (c *ContentTree) Build() *ContentTree {
	c.t.Helper()

	c.Path = c.t.TempDir()

	for _, dir := range c.dirs {
		full := filepath.Join(c.Path, filepath.FromSlash(dir))
		if err := os.MkdirAll(full, 0755); err != nil {
			c.t.Fatalf("failed to create directory %s: %v", full, err)
		}
	}
	for path, content := range c.files {
		c.WriteFile(path, content)
	}

	return c
}

// Join returns the absolute path of a tree-relative path.
func (c *ContentTree) Join(relPath string) string {
	return filepath.Join(c.Path, filepath.FromSlash(relPath))
}

// WriteFile writes a file into a built tree, creating directories as needed.
func (c *ContentTree) WriteFile(relPath, content string) {
	c.t.Helper()
	fullPath := c.Join(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		c.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// Remove deletes a file or directory from a built tree.
func (c *ContentTree) Remove(relPath string) {
	c.t.Helper()
	if err := os.RemoveAll(c.Join(relPath)); err != nil {
		c.t.Fatalf("failed to remove %s: %v", relPath, err)
	}
}

// ReadFile reads a file from the tree.
func (c *ContentTree) ReadFile(relPath string) string {
	c.t.Helper()
	content, err := os.ReadFile(c.Join(relPath))
	if err != nil {
		c.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}
