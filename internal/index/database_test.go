package index

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/parsers"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func projectRecord(title, hash string, techs ...string) *content.Extracted {
	rec := content.NewExtracted(content.TypeProject, title+".md")
	rec.MainEntity = &parsers.Project{Title: title, Slug: title, Description: "about " + title}
	rec.ContentHash = hash
	for _, name := range techs {
		rec.AddTechnology(content.Technology{Name: name, Category: "programming_languages"})
	}
	rec.AddTag("demo")
	rec.ComputeQuality()
	return rec
}

func TestDatabase(t *testing.T) {
	t.Run("initialization", func(t *testing.T) {
		db := openTestDB(t)
		stats, err := db.Stats()
		if err != nil {
			t.Fatalf("failed to get stats: %v", err)
		}
		if stats.RecordCount != 0 {
			t.Errorf("expected 0 records, got %d", stats.RecordCount)
		}
	})

	t.Run("upsert lifecycle", func(t *testing.T) {
		db := openTestDB(t)
		doc := Document{RelPath: "projects/alpha.md", ModTime: 100, Record: projectRecord("alpha", "h1", "Go")}

		for _, want := range []UpsertResult{Inserted, Unchanged} {
			got, err := db.Upsert(doc)
			if err != nil {
				t.Fatalf("Upsert: %v", err)
			}
			if got != want {
				t.Errorf("Upsert = %s, want %s", got, want)
			}
		}

		doc.Record = projectRecord("alpha", "h2", "Rust")
		if got, err := db.Upsert(doc); err != nil || got != Updated {
			t.Fatalf("Upsert changed = %s, %v; want updated", got, err)
		}

		stored, err := db.Get("projects/alpha.md")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if stored.ContentHash != "h2" || stored.Title != "alpha" || !stored.Valid || stored.FileMtime != 100 {
			t.Errorf("stored = %+v", stored)
		}
		if stored.ContentType != string(content.TypeProject) {
			t.Errorf("content type = %s", stored.ContentType)
		}

		// Technologies are replaced, not accumulated.
		techs, err := db.Technologies()
		if err != nil {
			t.Fatalf("Technologies: %v", err)
		}
		if len(techs) != 1 || techs[0].Name != "Rust" {
			t.Errorf("technologies = %+v", techs)
		}
	})

	t.Run("same content hash with new translation", func(t *testing.T) {
		db := openTestDB(t)
		rec := projectRecord("beta", "h1")
		if _, err := db.Upsert(Document{RelPath: "beta.md", Record: rec}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}

		again := projectRecord("beta", "h1")
		again.ParsedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		if got, err := db.Upsert(Document{RelPath: "beta.md", Record: again}); err != nil || got != Unchanged {
			t.Fatalf("reparse = %s, %v; want unchanged", got, err)
		}

		again.Translations = append(again.Translations, content.Translation{Language: "es", Title: "Beta"})
		if got, err := db.Upsert(Document{RelPath: "beta.md", Record: again}); err != nil || got != Updated {
			t.Fatalf("translation added = %s, %v; want updated", got, err)
		}
	})

	t.Run("invalid records are stored", func(t *testing.T) {
		db := openTestDB(t)
		rec := projectRecord("bad", "h")
		rec.AddError("missing title")
		if _, err := db.Upsert(Document{RelPath: "bad.md", Record: rec}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		stored, err := db.Get("bad.md")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if stored.Valid || stored.ErrorCount != 1 {
			t.Errorf("stored valid=%v errors=%d", stored.Valid, stored.ErrorCount)
		}
		stats, _ := db.Stats()
		if stats.InvalidCount != 1 {
			t.Errorf("invalid count = %d", stats.InvalidCount)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		db := openTestDB(t)
		if _, err := db.Get("nope.md"); !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("err = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("upsert rejects empty input", func(t *testing.T) {
		db := openTestDB(t)
		if _, err := db.Upsert(Document{RelPath: "x.md"}); err == nil {
			t.Error("expected error for nil record")
		}
		if _, err := db.Upsert(Document{Record: projectRecord("x", "h")}); err == nil {
			t.Error("expected error for empty path")
		}
	})
}

func TestList(t *testing.T) {
	db := openTestDB(t)
	blog := content.NewExtracted(content.TypeBlog, "b.md")
	blog.MainEntity = &parsers.BlogPost{Title: "Post", Slug: "post", Content: "hello"}
	blog.ContentHash = "b"
	blog.AddTag("golang")

	docs := []Document{
		{RelPath: "projects/a.md", Record: projectRecord("a", "1", "Go")},
		{RelPath: "projects/b.md", Record: projectRecord("b", "2", "Python")},
		{RelPath: "blog/post.md", Record: blog},
	}
	for _, doc := range docs {
		if _, err := db.Upsert(doc); err != nil {
			t.Fatalf("Upsert %s: %v", doc.RelPath, err)
		}
	}

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all", ListOptions{}, []string{"blog/post.md", "projects/a.md", "projects/b.md"}},
		{"by type", ListOptions{Type: "project"}, []string{"projects/a.md", "projects/b.md"}},
		{"by technology ignores case", ListOptions{Technology: "python"}, []string{"projects/b.md"}},
		{"by tag", ListOptions{Tag: "#GoLang"}, []string{"blog/post.md"}},
		{"limit", ListOptions{Limit: 1}, []string{"blog/post.md"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := db.List(tt.opts)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			var got []string
			for _, r := range recs {
				got = append(got, r.RelPath)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List = %v, want %v", got, tt.want)
			}
		})
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.ByType["project"] != 2 || stats.ByType["blog"] != 1 || stats.TechnologyCount != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRemoveMissing(t *testing.T) {
	db := openTestDB(t)
	for _, p := range []string{"a.md", "blog/x.md", "blog/y.md", "blogs/z.md"} {
		if _, err := db.Upsert(Document{RelPath: p, Record: projectRecord(p, p)}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	removed, err := db.RemoveMissing("blog", []string{"blog/x.md"})
	if err != nil {
		t.Fatalf("RemoveMissing: %v", err)
	}
	if !reflect.DeepEqual(removed, []string{"blog/y.md"}) {
		t.Errorf("removed = %v", removed)
	}

	removed, err = db.RemoveMissing("", []string{"a.md"})
	if err != nil {
		t.Fatalf("RemoveMissing: %v", err)
	}
	if !reflect.DeepEqual(removed, []string{"blog/x.md", "blogs/z.md"}) {
		t.Errorf("removed = %v", removed)
	}
	paths, _ := db.AllRelPaths()
	if !reflect.DeepEqual(paths, []string{"a.md"}) {
		t.Errorf("remaining = %v", paths)
	}
	if results, _ := db.Search("about", "", 10); len(results) != 1 {
		t.Errorf("search rows not removed: %+v", results)
	}
}

func TestSearch(t *testing.T) {
	db := openTestDB(t)
	rec := projectRecord("Realtime Chat", "h", "Node.js")
	rec.MainEntity.(*parsers.Project).Description = "A websocket chat server with end-to-end encryption."
	if _, err := db.Upsert(Document{RelPath: "chat.md", Record: rec}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := db.Upsert(Document{RelPath: "other.md", Record: projectRecord("Other", "o")}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	for _, q := range []string{"websocket", "end-to-end", "Node.js", "realtime", "chat AND server"} {
		results, err := db.Search(q, "", 10)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(results) != 1 || results[0].RelPath != "chat.md" {
			t.Errorf("Search(%q) = %+v", q, results)
		}
	}

	results, err := db.Search("websocket", "blog", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("type filter ignored: %+v", results)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".quill", "index.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.Upsert(Document{RelPath: "a.md", Record: projectRecord("a", "1")}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	db.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get("a.md"); err != nil {
		t.Errorf("record lost after reopen: %v", err)
	}
	if reopened.Path() != path {
		t.Errorf("Path = %q", reopened.Path())
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath("/content"); got != filepath.Join("/content", ".quill", "index.db") {
		t.Errorf("DefaultPath = %q", got)
	}
}
