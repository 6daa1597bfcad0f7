// Package vault walks a content directory and yields parse units: single
// markdown files and folder-based content directories.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/slugs"
)

// DataDir is the per-content-directory state directory skipped by walks.
const DataDir = ".quill"

// ErrOutsideRoot is returned when a path escapes the content directory.
var ErrOutsideRoot = errors.New("path is outside the content directory")

// Unit is one thing to parse.
type Unit struct {
	// Path is the absolute path of the file or folder.
	Path string
	// RelPath is Path relative to the walk root, slash separated.
	RelPath string
	// Folder is set for folder-based content.
	Folder bool
	// ModTime is the modification time of the main file as Unix seconds.
	ModTime int64
}

// WalkResult is handed to the walk handler for every unit or walk error.
type WalkResult struct {
	Unit
	Error error
}

// WalkOptions controls which units a walk yields.
type WalkOptions struct {
	// Pattern selects units by the relative path of their main file.
	// Defaults to DefaultPattern.
	Pattern string
	// SkipDirs are directory names skipped in addition to hidden ones.
	SkipDirs []string
}

// Walk visits every unit under root in lexical order. A directory that looks
// like folder-based content is yielded once as a folder unit and not
// descended into. Translation siblings ("post.es.md" next to "post.md") are
// not yielded on their own. Errors for single entries are passed to handler;
// a non-nil handler return stops the walk.
func Walk(root string, opts WalkOptions, handler func(result WalkResult) error) error {
	match, err := CompilePattern(opts.Pattern)
	if err != nil {
		return err
	}
	skip := map[string]bool{DataDir: true}
	for _, d := range opts.SkipDirs {
		skip[d] = true
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		relPath := relSlash(root, path)
		if err != nil {
			return handler(WalkResult{Unit: Unit{Path: path, RelPath: relPath}, Error: err})
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if skip[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if !content.IsFolderUnit(path) {
				return nil
			}
			main, err := content.MainFile(path)
			if err != nil {
				return handler(WalkResult{Unit: Unit{Path: path, RelPath: relPath, Folder: true}, Error: err})
			}
			if !match(relSlash(root, main)) {
				return filepath.SkipDir
			}
			unit := Unit{Path: path, RelPath: relPath, Folder: true, ModTime: modTime(main)}
			if err := handler(WalkResult{Unit: unit}); err != nil {
				return err
			}
			return filepath.SkipDir
		}

		if !strings.EqualFold(filepath.Ext(path), ".md") || !match(relPath) {
			return nil
		}
		if content.IsTranslationSibling(path) {
			return nil
		}
		if err := checkWithinRoot(root, path); err != nil {
			if errors.Is(err, ErrOutsideRoot) {
				return nil
			}
			return handler(WalkResult{Unit: Unit{Path: path, RelPath: relPath}, Error: err})
		}

		info, err := d.Info()
		if err != nil {
			return handler(WalkResult{Unit: Unit{Path: path, RelPath: relPath}, Error: err})
		}
		return handler(WalkResult{Unit: Unit{Path: path, RelPath: relPath, ModTime: info.ModTime().Unix()}})
	})
}

// UnitFor maps a path below root to the unit that owns it, the way Walk
// would yield it: a file inside a content folder belongs to the outermost
// such folder and a translation sibling belongs to its base file. ok is false
// when no unit would include path.
func UnitFor(root, path string, opts WalkOptions) (unit Unit, ok bool, err error) {
	match, err := CompilePattern(opts.Pattern)
	if err != nil {
		return Unit{}, false, err
	}
	rel := relSlash(root, path)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || filepath.IsAbs(rel) {
		return Unit{}, false, nil
	}
	skip := map[string]bool{DataDir: true}
	for _, d := range opts.SkipDirs {
		skip[d] = true
	}
	segments := strings.Split(rel, "/")
	for _, seg := range segments[:len(segments)-1] {
		if skip[seg] || strings.HasPrefix(seg, ".") {
			return Unit{}, false, nil
		}
	}

	folder := ""
	for dir := path; len(dir) > len(root); dir = filepath.Dir(dir) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() && content.IsFolderUnit(dir) {
			folder = dir
		}
	}
	if folder != "" {
		if skip[filepath.Base(folder)] || strings.HasPrefix(filepath.Base(folder), ".") {
			return Unit{}, false, nil
		}
		main, err := content.MainFile(folder)
		if err != nil {
			return Unit{}, false, err
		}
		if !match(relSlash(root, main)) {
			return Unit{}, false, nil
		}
		return Unit{Path: folder, RelPath: relSlash(root, folder), Folder: true, ModTime: modTime(main)}, true, nil
	}

	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return Unit{}, false, nil
	}
	if base, isSibling := content.TranslationBase(path); isSibling {
		path = base
		rel = relSlash(root, path)
	}
	if !match(rel) {
		return Unit{}, false, nil
	}
	return Unit{Path: path, RelPath: rel, ModTime: modTime(path)}, true, nil
}

// CollectUnits walks root and returns the units and the entries that failed.
func CollectUnits(root string, opts WalkOptions) ([]Unit, []WalkResult, error) {
	var units []Unit
	var failed []WalkResult

	err := Walk(root, opts, func(result WalkResult) error {
		if result.Error != nil {
			failed = append(failed, result)
		} else {
			units = append(units, result.Unit)
		}
		return nil
	})
	return units, failed, err
}

// Resolve finds the unit a user-supplied reference points at. It accepts an
// existing path, a path relative to root with or without ".md", or a
// reference whose slug matches a unit's relative path.
func Resolve(root, ref string) (string, error) {
	candidates := []string{ref}
	if !filepath.IsAbs(ref) {
		candidates = append(candidates, filepath.Join(root, ref), filepath.Join(root, ref+".md"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}

	want := slugPath(strings.TrimSuffix(filepath.ToSlash(ref), ".md"))
	var found string
	err := Walk(root, WalkOptions{}, func(result WalkResult) error {
		if result.Error != nil {
			// Best-effort: unreadable entries do not block resolution.
			return nil
		}
		if slugPath(strings.TrimSuffix(result.RelPath, ".md")) == want {
			found = result.Path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipAll) {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("content not found: %s", ref)
	}
	return found, nil
}

// SortUnits orders units by relative path.
func SortUnits(units []Unit) {
	sort.Slice(units, func(i, j int) bool { return units[i].RelPath < units[j].RelPath })
}

func slugPath(rel string) string {
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		parts[i] = slugs.Make(p)
	}
	return strings.Join(parts, "/")
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func modTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().Unix()
}

// checkWithinRoot rejects files whose resolved location, following
// symlinks, is outside root.
func checkWithinRoot(root, path string) error {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return err
	}
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(realRoot, realPath)
	if err != nil {
		return err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return nil
}
