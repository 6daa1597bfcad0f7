package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrExists is returned by CreateDefault when the target already exists.
var ErrExists = errors.New("config file already exists")

type persistedConfig struct {
	ContentDir     *string              `toml:"content_dir,omitempty"`
	Database       *string              `toml:"database,omitempty"`
	Pattern        *string              `toml:"pattern,omitempty"`
	Workers        int                  `toml:"workers,omitempty"`
	DetectLanguage bool                 `toml:"detect_language,omitempty"`
	Logging        *persistedLogging    `toml:"logging,omitempty"`
	UI             *persistedUISettings `toml:"ui,omitempty"`
	Detect         *persistedDetect     `toml:"detect,omitempty"`
}

type persistedLogging struct {
	Level  *string `toml:"level,omitempty"`
	Format *string `toml:"format,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

type persistedDetect struct {
	Aliases map[string]string `toml:"aliases,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes cfg to path atomically. Empty values are omitted so defaults
// keep applying on the next load.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = Default()
	}

	out := persistedConfig{
		ContentDir:     nonEmptyPtr(cfg.ContentDir),
		Database:       nonEmptyPtr(cfg.Database),
		Pattern:        nonEmptyPtr(cfg.Pattern),
		Workers:        cfg.Workers,
		DetectLanguage: cfg.DetectLanguage,
	}

	level := nonEmptyPtr(cfg.Logging.Level)
	format := nonEmptyPtr(cfg.Logging.Format)
	if level != nil || format != nil {
		out.Logging = &persistedLogging{Level: level, Format: format}
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	if len(cfg.Detect.Aliases) > 0 {
		out.Detect = &persistedDetect{Aliases: cfg.Detect.Aliases}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return writeConfigFile(path, buf.Bytes())
}

const defaultTemplate = `# quill configuration

# Root of the content tree. Relative paths resolve against the working directory.
content_dir = %q

# Index database. Defaults to <content_dir>/.quill/index.db.
# database = "/path/to/index.db"

# Glob selecting files for scan and sync.
pattern = %q

# Concurrent parses during batch commands.
workers = %d

# Detect the body language when metadata names none.
detect_language = false

[logging]
level = "info"   # debug, info, warn, error
format = "text"  # text, json

[ui]
# accent = "39"
# code_theme = "dracula"

[detect]
# Extra path segments mapped to content types.
# aliases = { notebook = "idea", writing = "blog" }
`

// CreateDefault writes a commented starter config for contentDir. It refuses
// to overwrite an existing file.
func CreateDefault(path, contentDir string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if contentDir == "" {
		contentDir = "."
	}
	data := fmt.Sprintf(defaultTemplate, contentDir, Default().Pattern, DefaultWorkers)
	return writeConfigFile(path, []byte(data))
}

func writeConfigFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// writeFileAtomic writes to a temporary file in the same directory and
// renames it into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Renaming over an existing file fails on Windows.
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
	}

	committed = true
	return nil
}
