package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/index"
	"github.com/aidanlsb/quill/internal/parsers"
	"github.com/aidanlsb/quill/internal/testutil"
)

func newTestWatcher(t *testing.T, tree *testutil.ContentTree, onChange func(Change)) (*Watcher, *index.Database) {
	t.Helper()
	db, err := index.OpenInMemory()
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	svc := parsers.NewService(tree.Path, nil, content.Options{Now: func() time.Time { return now }}, nil)
	w, err := New(Config{
		ContentDir:    tree.Path,
		Database:      db,
		Service:       svc,
		DebounceDelay: 20 * time.Millisecond,
		OnChange:      onChange,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w, db
}

func TestNewRequiresFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no content dir", Config{}},
		{"no database", Config{ContentDir: "."}},
		{"bad pattern", Config{ContentDir: ".", Database: &index.Database{}, Service: &parsers.Service{}, Pattern: "["}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReindexLifecycle(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithFile("blog/post.md", "---\ntitle: Post\n---\nHello there.").
		WithFile("blog/notes.txt", "plain text").
		Build()
	w, db := newTestWatcher(t, tree, nil)

	steps := []struct {
		name   string
		before func()
		path   string
		want   index.UpsertResult
	}{
		{"new file", nil, "blog/post.md", index.Inserted},
		{"same content", nil, "blog/post.md", index.Unchanged},
		{"edited", func() { tree.WriteFile("blog/post.md", "---\ntitle: Post\n---\nHello again.") }, "blog/post.md", index.Updated},
		{"not markdown", nil, "blog/notes.txt", ""},
		{"deleted", func() { tree.Remove("blog/post.md") }, "blog/post.md", Removed},
		{"already gone", nil, "blog/post.md", ""},
	}
	for _, step := range steps {
		if step.before != nil {
			step.before()
		}
		change := w.Reindex(step.path)
		if change.Err != nil {
			t.Fatalf("%s: %v", step.name, change.Err)
		}
		if change.Result != step.want {
			t.Errorf("%s: result = %q, want %q", step.name, change.Result, step.want)
		}
	}

	if _, err := db.Get("blog/post.md"); !errors.Is(err, index.ErrRecordNotFound) {
		t.Errorf("record should be gone, got %v", err)
	}
}

func TestReindexFolderUnit(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithProjectFolder("projects/engine", "# Engine\n\nA game engine written in Rust.", "title: Engine").
		WithFile("projects/engine/notes/design.md", "# Design").
		Build()
	w, db := newTestWatcher(t, tree, nil)

	change := w.Reindex(tree.Join("projects/engine/notes/design.md"))
	if change.Err != nil {
		t.Fatalf("Reindex: %v", change.Err)
	}
	if change.RelPath != "projects/engine" || change.Result != index.Inserted {
		t.Fatalf("change = %+v", change)
	}
	rec, err := db.Get("projects/engine")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.ContentType != string(content.TypeProject) {
		t.Errorf("type = %s, want project", rec.ContentType)
	}
}

func TestReindexParseFailureKeepsRecord(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithFile("post.md", "---\ntitle: Post\n---\nBody.").
		Build()
	w, db := newTestWatcher(t, tree, nil)

	if change := w.Reindex("post.md"); change.Err != nil {
		t.Fatalf("Reindex: %v", change.Err)
	}
	tree.WriteFile("post.md", "---\ntitle: [oops\n---\n")
	change := w.Reindex("post.md")
	if !errors.Is(change.Err, content.ErrMalformedFrontmatter) {
		t.Fatalf("err = %v, want malformed frontmatter", change.Err)
	}
	if _, err := db.Get("post.md"); err != nil {
		t.Errorf("previous record should survive: %v", err)
	}
}

func TestStartPicksUpChanges(t *testing.T) {
	tree := testutil.NewContentTree(t).WithDir("blog").Build()

	var mu sync.Mutex
	var changes []Change
	seen := make(chan struct{}, 16)
	w, db := newTestWatcher(t, tree, func(c Change) {
		mu.Lock()
		changes = append(changes, c)
		mu.Unlock()
		select {
		case seen <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Start: %v", err)
		}
	}()

	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)
	tree.WriteFile("blog/live.md", "---\ntitle: Live\n---\nWritten while watching.")

	deadline := time.After(5 * time.Second)
	for {
		if _, err := db.Get("blog/live.md"); err == nil {
			break
		}
		select {
		case <-seen:
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("record was not stored")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(changes) == 0 || changes[len(changes)-1].RelPath != "blog/live.md" {
		t.Fatalf("changes = %+v", changes)
	}
}
