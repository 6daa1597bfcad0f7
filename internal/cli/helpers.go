package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/index"
	"github.com/aidanlsb/quill/internal/parsers"
	"github.com/aidanlsb/quill/internal/vault"
)

// resolveContentDir returns the configured content directory and checks
// that it exists.
func resolveContentDir() (string, error) {
	dir, err := getConfig().ResolvedContentDir()
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("content directory not found: %s: %w", dir, os.ErrNotExist)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("content directory is not a directory: %s", dir)
	}
	return dir, nil
}

// newService builds a parser service for contentDir from the loaded config.
func newService(contentDir string) *parsers.Service {
	c := getConfig()
	var opts content.Options
	if c.DetectLanguage {
		opts.Detector = content.NewLinguaDetector()
	}
	return parsers.NewService(contentDir, c.Detect.Aliases, opts, logger)
}

// resolveTarget turns a command argument into an existing path. Relative
// references that do not exist from the working directory are looked up
// inside contentDir.
func resolveTarget(contentDir, ref string) (string, error) {
	if _, err := os.Stat(ref); err == nil {
		return filepath.Abs(ref)
	}
	path, err := vault.Resolve(contentDir, ref)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ref, os.ErrNotExist)
	}
	return filepath.Abs(path)
}

// scopeFor returns dir relative to contentDir, "" for the root itself.
func scopeFor(contentDir, dir string) (string, error) {
	rel, err := filepath.Rel(contentDir, dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w", dir, vault.ErrOutsideRoot)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s: %w", dir, vault.ErrOutsideRoot)
	}
	if rel == "." {
		return "", nil
	}
	return rel, nil
}

// batchDir resolves the optional directory argument of batch commands.
func batchDir(contentDir string, args []string) (dir, scope string, err error) {
	if len(args) == 0 {
		return contentDir, "", nil
	}
	dir, err = resolveTarget(contentDir, args[0])
	if err != nil {
		return "", "", err
	}
	scope, err = scopeFor(contentDir, dir)
	if err != nil {
		return "", "", err
	}
	return dir, scope, nil
}

// openExistingIndex opens the index for reading commands. It does not create
// a database that was never synced.
func openExistingIndex() (*index.Database, error) {
	dbPath, err := getConfig().DatabasePath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("index not found at %s: %w", dbPath, os.ErrNotExist)
	}
	return index.Open(dbPath)
}

func validateType(svc *parsers.Service, name string) (content.Type, error) {
	if name == "" {
		return "", nil
	}
	t := content.Type(strings.ToLower(strings.TrimSpace(name)))
	if !svc.Registry.Has(t) {
		return "", fmt.Errorf("unknown content type %q", name)
	}
	return t, nil
}
