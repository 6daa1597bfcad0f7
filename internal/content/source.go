package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Conventional folder layout.
const (
	ImagesDir   = "assets/images"
	VideosDir   = "assets/videos"
	DocsDir     = "assets/docs"
	NotesDir    = "notes"
	ResearchDir = "research"
)

var configFiles = []string{"config.yaml", "config.yml"}

// ErrNoMainFile is wrapped when a folder has no markdown file to parse.
var ErrNoMainFile = errors.New("no main markdown file")

// siblingPattern matches translation siblings such as "post.es.md" or
// "post.pt-BR.md".
var siblingPattern = regexp.MustCompile(`^(.+)\.([a-z]{2}(?:-[A-Z]{2})?)\.md$`)

// Asset is a file found in one of a folder's conventional subdirectories.
type Asset struct {
	// Path is relative to the folder root, slash separated.
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Folder describes the folder context of folder-based content.
type Folder struct {
	Root     string
	Config   Metadata
	Images   []Asset
	Videos   []Asset
	Docs     []Asset
	Notes    []Asset
	Research []Asset
}

// Sibling is a translation file stored next to the main file.
type Sibling struct {
	Language string
	Path     string
	Metadata Metadata
	Body     string
}

// Source is the raw material of one parse: the main file split into metadata
// and body, plus the folder context when the content is a directory.
type Source struct {
	// Path is the main markdown file.
	Path string
	// Unit is the path given to LoadSource: the file itself or its folder.
	Unit     string
	Raw      string
	Metadata Metadata
	Body     string
	Folder   *Folder
	Siblings []Sibling
	// Now is the reference time for relative checks (future dates, status
	// inference). It is set by the pipeline.
	Now time.Time
}

// IsFolder reports whether the source came from folder-based content.
func (s *Source) IsFolder() bool { return s.Folder != nil }

// Dir returns the directory holding the main file.
func (s *Source) Dir() string { return filepath.Dir(s.Path) }

// Stem returns the main file name without its extension.
func (s *Source) Stem() string {
	return strings.TrimSuffix(filepath.Base(s.Path), filepath.Ext(s.Path))
}

// Name returns the unit's base name: the folder name for folder content, the
// file name otherwise.
func (s *Source) Name() string { return filepath.Base(s.Unit) }

// NewSource builds a single-file source from raw content.
func NewSource(path, raw string) (*Source, error) {
	meta, body, err := SplitFrontmatter(raw)
	if err != nil {
		return nil, newParseError(KindMalformedFrontmatter, path, err)
	}
	return &Source{Path: path, Unit: path, Raw: raw, Metadata: meta, Body: body}, nil
}

// LoadSource reads a file or content folder.
func LoadSource(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newParseError(KindUnreadable, path, fmt.Errorf("%w: %v", ErrUnreadable, err))
	}
	if info.IsDir() {
		return loadFolder(path)
	}
	src, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	src.Siblings = loadSiblings(path)
	return src, nil
}

func loadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newParseError(KindUnreadable, path, fmt.Errorf("%w: %v", ErrUnreadable, err))
	}
	return NewSource(path, string(data))
}

func loadFolder(root string) (*Source, error) {
	main, err := MainFile(root)
	if err != nil {
		return nil, newParseError(KindUnreadable, root, err)
	}
	src, err := loadFile(main)
	if err != nil {
		return nil, err
	}
	src.Unit = root

	folder := &Folder{Root: root}
	folder.Config, err = loadConfig(root)
	if err != nil {
		return nil, newParseError(KindMalformedFrontmatter, root, err)
	}
	if len(folder.Config) > 0 {
		src.Metadata = src.Metadata.Merge(folder.Config)
	}
	folder.Images = listAssets(root, ImagesDir)
	folder.Videos = listAssets(root, VideosDir)
	folder.Docs = listAssets(root, DocsDir)
	folder.Notes = listAssets(root, NotesDir)
	folder.Research = listAssets(root, ResearchDir)
	src.Folder = folder
	src.Siblings = loadSiblings(main)
	return src, nil
}

// MainFile resolves the designated main markdown file of a content folder.
func MainFile(root string) (string, error) {
	candidates := []string{"index.md", "README.md", filepath.Base(root) + ".md", "project.md", "idea.md"}
	for _, name := range candidates {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		if IsTranslationSibling(filepath.Join(root, e.Name())) {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: %w in %s", ErrUnreadable, ErrNoMainFile, root)
	}
	sort.Strings(names)
	return filepath.Join(root, names[0]), nil
}

// IsFolderUnit reports whether dir is folder-based content: it has a config
// file and a main file, or one of the conventional subdirectories next to a
// designated main file (index.md, README.md or <dirname>.md). A directory
// that only holds loose posts beside a shared assets/ stays a plain
// directory so each file is parsed on its own.
func IsFolderUnit(dir string) bool {
	for _, name := range configFiles {
		if fileExists(filepath.Join(dir, name)) {
			_, err := MainFile(dir)
			return err == nil
		}
	}
	if designatedMainFile(dir) == "" {
		return false
	}
	for _, sub := range []string{ImagesDir, VideosDir, DocsDir, NotesDir, ResearchDir, "assets"} {
		if info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(sub))); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func designatedMainFile(dir string) string {
	for _, name := range []string{"index.md", "README.md", filepath.Base(dir) + ".md"} {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// IsTranslationSibling reports whether path is "<stem>.<lang>.md" with a
// "<stem>.md" next to it.
func IsTranslationSibling(path string) bool {
	_, ok := TranslationBase(path)
	return ok
}

// TranslationBase returns the "<stem>.md" a translation sibling belongs to.
func TranslationBase(path string) (string, bool) {
	m := siblingPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", false
	}
	base := filepath.Join(filepath.Dir(path), m[1]+".md")
	return base, fileExists(base)
}

func loadConfig(root string) (Metadata, error) {
	for _, name := range configFiles {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		var cfg map[string]any
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFrontmatter, name, err)
		}
		return Metadata(normalizeMap(cfg)), nil
	}
	return nil, nil
}

func listAssets(root, sub string) []Asset {
	dir := filepath.Join(root, filepath.FromSlash(sub))
	var assets []Asset
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		var size int64
		if info, infoErr := d.Info(); infoErr == nil {
			size = info.Size()
		}
		assets = append(assets, Asset{Path: filepath.ToSlash(rel), Name: d.Name(), Size: size})
		return nil
	})
	return assets
}

func loadSiblings(main string) []Sibling {
	stem := strings.TrimSuffix(filepath.Base(main), filepath.Ext(main))
	pattern := filepath.Join(filepath.Dir(main), stem+".*.md")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	sort.Strings(matches)

	var out []Sibling
	for _, p := range matches {
		m := siblingPattern.FindStringSubmatch(filepath.Base(p))
		if m == nil || m[1] != stem {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		meta, body, err := SplitFrontmatter(string(data))
		if err != nil {
			continue
		}
		out = append(out, Sibling{Language: m[2], Path: p, Metadata: meta, Body: body})
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
