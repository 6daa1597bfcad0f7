package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Pattern != "**/*.md" {
		t.Errorf("Pattern = %q", cfg.Pattern)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
content_dir = "/srv/content"
pattern = "blog/**/*.md"
workers = 4
detect_language = true

[logging]
level = "debug"

[ui]
accent = "39"

[detect]
aliases = { notebook = "idea" }
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.ContentDir != "/srv/content" {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
	if cfg.Pattern != "blog/**/*.md" || cfg.Workers != 4 || !cfg.DetectLanguage {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Logging.Format != "text" {
		t.Errorf("Format = %q, want default", cfg.Logging.Format)
	}
	if cfg.UI.Accent != "39" {
		t.Errorf("Accent = %q", cfg.UI.Accent)
	}
	if cfg.Detect.Aliases["notebook"] != "idea" {
		t.Errorf("Aliases = %v", cfg.Detect.Aliases)
	}
}

func TestLoadFromErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "syntax", body: "content_dir = ", want: "failed to parse"},
		{name: "unknown key", body: "editor = \"vim\"\n", want: "editor"},
		{name: "zero workers", body: "workers = 0\n", want: "workers"},
		{name: "too many workers", body: "workers = 1000\n", want: "workers"},
		{name: "bad level", body: "[logging]\nlevel = \"loud\"\n", want: "level"},
		{name: "bad format", body: "[logging]\nformat = \"xml\"\n", want: "format"},
		{name: "bad pattern", body: "pattern = \"[\"\n", want: "pattern"},
		{name: "bad alias", body: "[detect]\naliases = { \"a/b\" = \"idea\" }\n", want: "a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Apply(Overrides{ContentDir: "/content", LogLevel: "DEBUG", Workers: 8})

	if cfg.ContentDir != "/content" {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.Pattern != "**/*.md" {
		t.Errorf("empty override replaced Pattern: %q", cfg.Pattern)
	}
}

func TestDatabasePath(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.ContentDir = dir
	got, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath: %v", err)
	}
	if want := filepath.Join(dir, ".quill", "index.db"); got != want {
		t.Errorf("DatabasePath = %q, want %q", got, want)
	}

	cfg.Database = filepath.Join(dir, "elsewhere.db")
	got, err = cfg.DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath: %v", err)
	}
	if got != cfg.Database {
		t.Errorf("DatabasePath = %q, want %q", got, cfg.Database)
	}
}

func TestResolvedContentDirExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := Default()
	cfg.ContentDir = "~/notes"
	got, err := cfg.ResolvedContentDir()
	if err != nil {
		t.Fatalf("ResolvedContentDir: %v", err)
	}
	if want := filepath.Join(home, "notes"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDefaultPathPrefersXDG(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))

	xdg := filepath.Join(home, ".config", "quill", "config.toml")
	if err := os.MkdirAll(filepath.Dir(xdg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xdg, []byte("workers = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := DefaultPath(); got != xdg {
		t.Errorf("DefaultPath = %q, want %q", got, xdg)
	}
}
