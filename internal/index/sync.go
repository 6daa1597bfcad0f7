package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aidanlsb/quill/internal/parsers"
	"github.com/aidanlsb/quill/internal/vault"
)

// Run is one sync pass over a content directory.
type Run struct {
	ID         string
	ContentDir string
	StartedAt  time.Time
	FinishedAt time.Time
	Inserted   int
	Updated    int
	Unchanged  int
	Removed    int
	Failed     int
}

// StartRun records the beginning of a sync run under a fresh id.
func (d *Database) StartRun(contentDir string) (*Run, error) {
	run := &Run{ID: uuid.NewString(), ContentDir: contentDir, StartedAt: time.Now()}
	_, err := d.db.Exec(`INSERT INTO sync_runs (id, content_dir, started_at) VALUES (?, ?, ?)`,
		run.ID, contentDir, run.StartedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("start sync run: %w", err)
	}
	return run, nil
}

// FinishRun stores the run's counts and completion time.
func (d *Database) FinishRun(run *Run) error {
	run.FinishedAt = time.Now()
	_, err := d.db.Exec(`
		UPDATE sync_runs
		SET finished_at = ?, inserted = ?, updated = ?, unchanged = ?, removed = ?, failed = ?
		WHERE id = ?
	`, run.FinishedAt.Unix(), run.Inserted, run.Updated, run.Unchanged, run.Removed, run.Failed, run.ID)
	if err != nil {
		return fmt.Errorf("finish sync run: %w", err)
	}
	return nil
}

// LastRun returns the most recently started run, or nil when none exists.
func (d *Database) LastRun() (*Run, error) {
	var run Run
	var started int64
	var finished sql.NullInt64
	err := d.db.QueryRow(`
		SELECT id, content_dir, started_at, finished_at, inserted, updated, unchanged, removed, failed
		FROM sync_runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&run.ID, &run.ContentDir, &started, &finished, &run.Inserted, &run.Updated, &run.Unchanged, &run.Removed, &run.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.StartedAt = time.Unix(started, 0)
	if finished.Valid {
		run.FinishedAt = time.Unix(finished.Int64, 0)
	}
	return &run, nil
}

// SyncOptions controls Sync.
type SyncOptions struct {
	// ContentDir is recorded on the run.
	ContentDir string
	// Prune removes stored records under Scope that the batch did not yield.
	Prune bool
	// Scope is the relative directory the batch covered; "" is everything.
	Scope string
	// Pattern is the glob the batch was walked with, relative to Scope.
	// Records it does not select are never pruned. "" is the default glob.
	Pattern string
}

// Sync stores every record of a batch parse inside one run. Files that failed
// to parse count as failed and keep whatever the index held for them.
func (d *Database) Sync(res *parsers.BatchResult, opts SyncOptions) (*Run, error) {
	if _, err := vault.CompilePattern(opts.Pattern); err != nil {
		return nil, err
	}
	run, err := d.StartRun(opts.ContentDir)
	if err != nil {
		return nil, err
	}

	for i, rec := range res.Records {
		doc := Document{RelPath: res.RelPaths[i], Record: rec, RunID: run.ID}
		if i < len(res.ModTimes) {
			doc.ModTime = res.ModTimes[i]
		}
		result, err := d.Upsert(doc)
		if err != nil {
			return run, err
		}
		switch result {
		case Inserted:
			run.Inserted++
		case Updated:
			run.Updated++
		case Unchanged:
			run.Unchanged++
		}
	}
	run.Failed = len(res.Failures)

	if opts.Prune {
		keep := make([]string, 0, len(res.RelPaths)+len(res.Failures))
		keep = append(keep, res.RelPaths...)
		for _, f := range res.Failures {
			keep = append(keep, f.RelPath)
		}
		unselected, err := d.unselected(opts.Scope, opts.Pattern)
		if err != nil {
			return run, err
		}
		keep = append(keep, unselected...)
		removed, err := d.RemoveMissing(opts.Scope, keep)
		if err != nil {
			return run, err
		}
		run.Removed = len(removed)
	}

	if err := d.FinishRun(run); err != nil {
		return run, err
	}
	return run, nil
}

// unselected lists stored records under scope that pattern does not select.
// A narrowed batch never saw them, so their absence says nothing.
func (d *Database) unselected(scope, pattern string) ([]string, error) {
	match, err := vault.CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	paths, err := d.AllRelPaths()
	if err != nil {
		return nil, err
	}
	scope = strings.TrimSuffix(scope, "/")
	var out []string
	for _, p := range paths {
		if !underPrefix(p, scope) {
			continue
		}
		rel := p
		if scope != "" && scope != "." {
			rel = strings.TrimPrefix(strings.TrimPrefix(p, scope), "/")
		}
		if !vault.MatchesUnit(match, rel) {
			out = append(out, p)
		}
	}
	return out, nil
}
