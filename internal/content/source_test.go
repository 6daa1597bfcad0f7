package content

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/aidanlsb/quill/internal/testutil"
)

func TestLoadSourceSingleFile(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithFile("post.md", "---\ntitle: Post\n---\nHello").
		Build()

	src, err := LoadSource(tree.Join("post.md"))
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if src.IsFolder() {
		t.Error("single file reported as folder")
	}
	if src.Metadata.String("title") != "Post" || src.Body != "Hello" {
		t.Errorf("metadata = %v, body = %q", src.Metadata, src.Body)
	}
	if src.Stem() != "post" {
		t.Errorf("Stem() = %q", src.Stem())
	}
}

func TestLoadSourceMissingFile(t *testing.T) {
	_, err := LoadSource(filepath.Join(t.TempDir(), "nope.md"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("err = %v, want ErrUnreadable", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != KindUnreadable {
		t.Errorf("err = %#v, want ParseError of kind unreadable", err)
	}
}

func TestLoadSourceFolder(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithProjectFolder("projects/engine",
			"---\ntitle: From Index\nstatus: active\nlinks:\n  github: https://github.com/a/b\n---\n# Engine\n",
			"title: From Config\nlinks:\n  demo: https://demo.example.com\n",
			"screenshot-main.png").
		WithFile("projects/engine/assets/videos/demo.mp4", "v").
		WithFile("projects/engine/notes/todo.md", "n").
		WithFile("projects/engine/research/paper.pdf", "r").
		Build()

	src, err := LoadSource(tree.Join("projects/engine"))
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if !src.IsFolder() {
		t.Fatal("expected folder source")
	}
	if filepath.Base(src.Path) != "index.md" {
		t.Errorf("main file = %s", src.Path)
	}
	if src.Name() != "engine" {
		t.Errorf("Name() = %q", src.Name())
	}
	if got := src.Metadata.String("title"); got != "From Config" {
		t.Errorf("config overlay not applied: title = %q", got)
	}
	if got := src.Metadata.String("status"); got != "active" {
		t.Errorf("status lost in merge: %q", got)
	}
	links := src.Metadata.Map("links")
	if links.String("github") == "" || links.String("demo") == "" {
		t.Errorf("nested links not merged: %v", links)
	}

	f := src.Folder
	if len(f.Images) != 1 || f.Images[0].Path != "assets/images/screenshot-main.png" {
		t.Errorf("images = %+v", f.Images)
	}
	if f.Images[0].Size != int64(len("img:screenshot-main.png")) {
		t.Errorf("image size = %d", f.Images[0].Size)
	}
	if len(f.Videos) != 1 || len(f.Notes) != 1 || len(f.Research) != 1 || len(f.Docs) != 0 {
		t.Errorf("assets = videos %d notes %d research %d docs %d", len(f.Videos), len(f.Notes), len(f.Research), len(f.Docs))
	}
}

func TestMainFileOrder(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"index wins", []string{"README.md", "index.md", "a.md"}, "index.md"},
		{"readme next", []string{"README.md", "widget.md"}, "README.md"},
		{"folder name", []string{"widget.md", "aaa.md"}, "widget.md"},
		{"project file", []string{"project.md", "aaa.md"}, "project.md"},
		{"first sorted", []string{"zeta.md", "beta.md"}, "beta.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewContentTree(t)
			for _, f := range tt.files {
				b.WithFile("widget/"+f, "# x")
			}
			tree := b.Build()
			got, err := MainFile(tree.Join("widget"))
			if err != nil {
				t.Fatalf("MainFile: %v", err)
			}
			if filepath.Base(got) != tt.want {
				t.Errorf("MainFile() = %s, want %s", filepath.Base(got), tt.want)
			}
		})
	}
}

func TestMainFileEmptyFolder(t *testing.T) {
	tree := testutil.NewContentTree(t).WithDir("empty/assets").Build()
	_, err := MainFile(tree.Join("empty"))
	if !errors.Is(err, ErrNoMainFile) {
		t.Errorf("err = %v, want ErrNoMainFile", err)
	}
}

func TestMalformedConfigOverlay(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithProjectFolder("p", "# P", "title: [oops").
		Build()
	_, err := LoadSource(tree.Join("p"))
	if !errors.Is(err, ErrMalformedFrontmatter) {
		t.Errorf("err = %v, want ErrMalformedFrontmatter", err)
	}
}

func TestIsFolderUnit(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithProjectFolder("with-config", "# A", "title: A").
		WithFile("with-notes/index.md", "# B").
		WithDir("with-notes/notes").
		WithFile("plain/one.md", "# C").
		WithFile("plain/two.md", "# D").
		WithFile("shared/first-post.md", "# First").
		WithFile("shared/second-post.md", "# Second").
		WithFile("shared/assets/images/cover.png", "img").
		WithFile("named/named.md", "# Named").
		WithDir("named/research").
		Build()

	if !IsFolderUnit(tree.Join("with-config")) {
		t.Error("config folder not recognized")
	}
	if !IsFolderUnit(tree.Join("with-notes")) {
		t.Error("notes folder not recognized")
	}
	if IsFolderUnit(tree.Join("plain")) {
		t.Error("plain directory recognized as a unit")
	}
	if IsFolderUnit(tree.Join("shared")) {
		t.Error("loose posts beside assets/ recognized as a unit")
	}
	if !IsFolderUnit(tree.Join("named")) {
		t.Error("<dirname>.md with research/ not recognized")
	}
}

func TestTranslationSiblings(t *testing.T) {
	tree := testutil.NewContentTree(t).
		WithFile("post.md", "---\ntitle: Hello\n---\nBody").
		WithFile("post.es.md", "---\ntitle: Hola\n---\nCuerpo").
		WithFile("post.pt-BR.md", "# Olá\nCorpo").
		WithFile("other.fr.md", "# Autre").
		Build()

	if !IsTranslationSibling(tree.Join("post.es.md")) {
		t.Error("post.es.md not a sibling")
	}
	if IsTranslationSibling(tree.Join("other.fr.md")) {
		t.Error("other.fr.md has no base file")
	}

	src, err := LoadSource(tree.Join("post.md"))
	if err != nil {
		t.Fatal(err)
	}
	if len(src.Siblings) != 2 {
		t.Fatalf("siblings = %+v", src.Siblings)
	}
	if src.Siblings[0].Language != "es" || src.Siblings[1].Language != "pt-BR" {
		t.Errorf("sibling languages = %s, %s", src.Siblings[0].Language, src.Siblings[1].Language)
	}
}
