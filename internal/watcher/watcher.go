// Package watcher keeps an index in step with a content directory by
// reparsing units as their files change.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/quill/internal/index"
	"github.com/aidanlsb/quill/internal/parsers"
	"github.com/aidanlsb/quill/internal/vault"
)

// DefaultDebounce is how long a unit must stay quiet before it is reparsed.
const DefaultDebounce = 200 * time.Millisecond

// Removed is reported for units that no longer exist on disk.
const Removed index.UpsertResult = "removed"

// ignoredDirs are never watched. Hidden directories are skipped as well.
var ignoredDirs = map[string]bool{vault.DataDir: true, "node_modules": true}

// Change describes one processed unit.
type Change struct {
	RelPath string
	Result  index.UpsertResult
	Err     error
}

// Config holds configuration options for the Watcher.
type Config struct {
	ContentDir    string
	Database      *index.Database
	Service       *parsers.Service
	Pattern       string
	DebounceDelay time.Duration // Default: DefaultDebounce
	Logger        *slog.Logger
	OnChange      func(Change) // Optional callback
}

// Watcher monitors a content directory and stores every changed unit.
type Watcher struct {
	contentDir string
	db         *index.Database
	svc        *parsers.Service
	walkOpts   vault.WalkOptions
	debounce   time.Duration
	logger     *slog.Logger
	onChange   func(Change)

	fsWatcher *fsnotify.Watcher
	mu        sync.Mutex
	pending   map[string]pendingUnit
}

type pendingUnit struct {
	unit vault.Unit
	at   time.Time
	gone bool
}

// New creates a Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.ContentDir == "" {
		return nil, errors.New("content directory is required")
	}
	if cfg.Database == nil {
		return nil, errors.New("database is required")
	}
	if cfg.Service == nil {
		return nil, errors.New("parser service is required")
	}
	if _, err := vault.CompilePattern(cfg.Pattern); err != nil {
		return nil, err
	}

	debounce := cfg.DebounceDelay
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		contentDir: cfg.ContentDir,
		db:         cfg.Database,
		svc:        cfg.Service,
		walkOpts:   vault.WalkOptions{Pattern: cfg.Pattern},
		debounce:   debounce,
		logger:     logger,
		onChange:   cfg.OnChange,
		pending:    make(map[string]pendingUnit),
	}, nil
}

// Start watches the content directory until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsw.Close()
	w.fsWatcher = fsw

	if err := w.addWatchRecursive(w.contentDir); err != nil {
		return fmt.Errorf("watch %s: %w", w.contentDir, err)
	}
	w.logger.Info("watching content directory", "path", w.contentDir, "debounce", w.debounce)

	ticker := time.NewTicker(max(w.debounce/4, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flush(true)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-ticker.C:
			w.flush(false)
		}
	}
}

// Reindex parses the unit owning path and stores it. A path that maps to no
// unit is ignored and reported with an empty result.
func (w *Watcher) Reindex(path string) Change {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.contentDir, path)
	}
	unit, ok, err := vault.UnitFor(w.contentDir, path, w.walkOpts)
	if err != nil {
		return Change{RelPath: w.svc.Rel(path), Err: err}
	}
	if !ok {
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return w.remove(w.svc.Rel(path))
		}
		return Change{RelPath: w.svc.Rel(path)}
	}
	return w.store(unit)
}

func (w *Watcher) store(unit vault.Unit) Change {
	rel := w.svc.Rel(unit.Path)
	if _, err := os.Stat(unit.Path); errors.Is(err, os.ErrNotExist) {
		return w.remove(rel)
	}
	rec, err := w.svc.ParseFile(unit.Path, "")
	if err != nil {
		return Change{RelPath: rel, Err: err}
	}
	result, err := w.db.Upsert(index.Document{RelPath: rel, ModTime: unit.ModTime, Record: rec})
	return Change{RelPath: rel, Result: result, Err: err}
}

func (w *Watcher) remove(rel string) Change {
	if _, err := w.db.Get(rel); errors.Is(err, index.ErrRecordNotFound) {
		return Change{RelPath: rel}
	}
	if err := w.db.Remove(rel); err != nil {
		return Change{RelPath: rel, Err: err}
	}
	return Change{RelPath: rel, Result: Removed}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.shouldIgnore(path) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addWatchRecursive(path); err != nil {
				w.logger.Warn("watch new directory", "path", path, "error", err)
			}
		}
	}

	w.logger.Debug("file event", "op", event.Op.String(), "path", w.svc.Rel(path))

	unit, ok, err := vault.UnitFor(w.contentDir, path, w.walkOpts)
	if err != nil {
		w.logger.Warn("resolve unit", "path", path, "error", err)
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if ok {
		w.pending[unit.Path] = pendingUnit{unit: unit, at: time.Now()}
		return
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.pending[path] = pendingUnit{unit: vault.Unit{Path: path}, at: time.Now(), gone: true}
	}
}

// flush processes pending units that have been quiet for the debounce delay,
// or all of them when force is set.
func (w *Watcher) flush(force bool) {
	w.mu.Lock()
	now := time.Now()
	var ready []pendingUnit
	for key, p := range w.pending {
		if force || now.Sub(p.at) >= w.debounce {
			ready = append(ready, p)
			delete(w.pending, key)
		}
	}
	w.mu.Unlock()

	for _, p := range ready {
		var change Change
		if p.gone {
			change = w.remove(w.svc.Rel(p.unit.Path))
		} else {
			change = w.store(p.unit)
		}
		w.report(change)
	}
}

func (w *Watcher) report(c Change) {
	switch {
	case c.Err != nil:
		w.logger.Warn("reindex failed", "path", c.RelPath, "error", c.Err)
	case c.Result != "":
		w.logger.Info("reindexed", "path", c.RelPath, "result", string(c.Result))
	default:
		return
	}
	if w.onChange != nil {
		w.onChange(c)
	}
}

func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.shouldIgnoreDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.logger.Warn("watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.contentDir, path)
	if err != nil {
		return true
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, part := range parts[:len(parts)-1] {
		if w.shouldIgnoreDir(part) {
			return true
		}
	}
	return w.shouldIgnoreDir(parts[len(parts)-1]) && !strings.HasSuffix(path, ".md")
}

func (w *Watcher) shouldIgnoreDir(name string) bool {
	return ignoredDirs[name] || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}
