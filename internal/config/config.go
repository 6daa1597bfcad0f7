// Package config handles quill configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/quill/internal/index"
	"github.com/aidanlsb/quill/internal/vault"
)

// ErrInvalid wraps every configuration problem.
var ErrInvalid = errors.New("invalid configuration")

// Defaults.
const (
	DefaultWorkers   = 1
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config represents the quill configuration file.
type Config struct {
	// ContentDir is the root of the content tree. Relative paths resolve
	// against the working directory.
	ContentDir string `toml:"content_dir"`

	// Database is the index location; empty means <content_dir>/.quill/index.db.
	Database string `toml:"database"`

	// Pattern selects files during scans.
	Pattern string `toml:"pattern"`

	// Workers is the number of concurrent parses in batch commands.
	Workers int `toml:"workers"`

	// DetectLanguage enables body language detection when metadata names none.
	DetectLanguage bool `toml:"detect_language"`

	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
	Detect  DetectConfig  `toml:"detect"`
}

// LoggingConfig controls diagnostic output on stderr.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// DetectConfig tunes content type detection.
type DetectConfig struct {
	// Aliases map extra path segments to content types, e.g. notebook = "idea".
	Aliases map[string]string `toml:"aliases"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		ContentDir: ".",
		Pattern:    vault.DefaultPattern,
		Workers:    DefaultWorkers,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load loads the configuration from the default location.
// Returns the defaults if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path over the defaults.
// Unknown keys are rejected.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse config %s: %v", ErrInvalid, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(64)),
		validation.Field(&c.Logging),
		validation.Field(&c.Detect),
	)
	if err == nil {
		if _, perr := vault.CompilePattern(c.Pattern); perr != nil {
			err = fmt.Errorf("pattern: %v", perr)
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Validate implements validation.Validatable.
func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}

// Validate implements validation.Validatable.
func (d DetectConfig) Validate() error {
	for segment, t := range d.Aliases {
		if strings.TrimSpace(segment) == "" || strings.Contains(segment, "/") {
			return fmt.Errorf("alias %q must be a single path segment", segment)
		}
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("alias %q has no type", segment)
		}
	}
	return nil
}

// Overrides are command-line values that replace file settings when set.
type Overrides struct {
	ContentDir string
	Database   string
	Pattern    string
	LogLevel   string
	Workers    int
}

// Apply copies every non-zero override onto c.
func (c *Config) Apply(o Overrides) {
	if o.ContentDir != "" {
		c.ContentDir = o.ContentDir
	}
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.Pattern != "" {
		c.Pattern = o.Pattern
	}
	if o.LogLevel != "" {
		c.Logging.Level = strings.ToLower(o.LogLevel)
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
}

// ResolvedContentDir returns ContentDir as an absolute path with a leading
// "~" expanded.
func (c *Config) ResolvedContentDir() (string, error) {
	dir := expandHome(c.ContentDir)
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve content dir: %w", err)
	}
	return abs, nil
}

// DatabasePath returns the configured index path or the default inside the
// content directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database != "" {
		return filepath.Abs(expandHome(c.Database))
	}
	dir, err := c.ResolvedContentDir()
	if err != nil {
		return "", err
	}
	return index.DefaultPath(dir), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// DefaultPath returns the default config file path.
// Checks ~/.config/quill/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "quill", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "quill", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/quill/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "quill", "config.toml"), nil
}
