// Package index stores extracted content records in SQLite.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Database is the SQLite database handle.
type Database struct {
	db   *sql.DB
	path string
}

var (
	// ErrRecordNotFound indicates the requested path is not in the index.
	ErrRecordNotFound = errors.New("record not found in index")
	// ErrIndexLocked indicates another process is syncing the index.
	ErrIndexLocked = errors.New("index is locked by another sync")
)

// DefaultPath returns the index location inside a content directory.
func DefaultPath(contentDir string) string {
	return filepath.Join(contentDir, ".quill", "index.db")
}

// DB returns the underlying sql.DB for advanced queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Path returns the database file path, or "" for an in-memory database.
func (d *Database) Path() string {
	return d.path
}

// Open opens or creates the database at path, creating its directory.
func Open(path string) (*Database, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Database{db: db, path: path}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

// CurrentDBVersion is the current database schema version.
const CurrentDBVersion = 2

func (d *Database) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- One row per parse unit, keyed by its path relative to the content directory
		CREATE TABLE IF NOT EXISTS records (
			rel_path TEXT PRIMARY KEY,
			content_type TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			slug TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL,
			fingerprint TEXT NOT NULL DEFAULT '',
			quality REAL NOT NULL,
			valid INTEGER NOT NULL,
			error_count INTEGER NOT NULL DEFAULT 0,
			warning_count INTEGER NOT NULL DEFAULT 0,
			data TEXT NOT NULL,
			file_mtime INTEGER,
			parsed_at INTEGER,
			indexed_at INTEGER NOT NULL,
			run_id TEXT
		);

		CREATE TABLE IF NOT EXISTS record_technologies (
			rel_path TEXT NOT NULL REFERENCES records(rel_path) ON DELETE CASCADE,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			source TEXT,
			proficiency TEXT,
			sort_order INTEGER NOT NULL,
			PRIMARY KEY (rel_path, name)
		);

		CREATE TABLE IF NOT EXISTS record_tags (
			rel_path TEXT NOT NULL REFERENCES records(rel_path) ON DELETE CASCADE,
			tag TEXT NOT NULL,
			PRIMARY KEY (rel_path, tag)
		);

		CREATE TABLE IF NOT EXISTS sync_runs (
			id TEXT PRIMARY KEY,
			content_dir TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER,
			inserted INTEGER NOT NULL DEFAULT 0,
			updated INTEGER NOT NULL DEFAULT 0,
			unchanged INTEGER NOT NULL DEFAULT 0,
			removed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_records_type ON records(content_type);
		CREATE INDEX IF NOT EXISTS idx_records_slug ON records(slug);
		CREATE INDEX IF NOT EXISTS idx_technologies_name ON record_technologies(name COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS idx_tags_tag ON record_tags(tag);

		CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
			rel_path UNINDEXED,
			title,
			content,
			tokenize='porter unicode61'
		);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	if err := d.migrate(); err != nil {
		return err
	}

	_, err := d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

// migrate brings an index written by an older version up to date. Version 1
// had no fingerprint column; its rows get an empty one and are rewritten on
// the next sync.
func (d *Database) migrate() error {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('records') WHERE name = 'fingerprint'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to inspect database schema: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := d.db.Exec(`ALTER TABLE records ADD COLUMN fingerprint TEXT NOT NULL DEFAULT ''`); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}

// Stats contains index statistics.
type Stats struct {
	RecordCount     int
	InvalidCount    int
	TechnologyCount int
	TagCount        int
	ByType          map[string]int
}

// Stats returns statistics about the index.
func (d *Database) Stats() (*Stats, error) {
	stats := Stats{ByType: map[string]int{}}

	if err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&stats.RecordCount); err != nil {
		return nil, err
	}
	if err := d.db.QueryRow("SELECT COUNT(*) FROM records WHERE valid = 0").Scan(&stats.InvalidCount); err != nil {
		return nil, err
	}
	if err := d.db.QueryRow("SELECT COUNT(DISTINCT name COLLATE NOCASE) FROM record_technologies").Scan(&stats.TechnologyCount); err != nil {
		return nil, err
	}
	if err := d.db.QueryRow("SELECT COUNT(DISTINCT tag) FROM record_tags").Scan(&stats.TagCount); err != nil {
		return nil, err
	}

	rows, err := d.db.Query("SELECT content_type, COUNT(*) FROM records GROUP BY content_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		stats.ByType[t] = n
	}
	return &stats, rows.Err()
}
