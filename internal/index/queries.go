package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/sqlutil"
)

// UpsertResult says what Upsert did with a record.
type UpsertResult string

const (
	Inserted  UpsertResult = "inserted"
	Updated   UpsertResult = "updated"
	Unchanged UpsertResult = "unchanged"
)

// Document is one record to store, keyed by its path relative to the content
// directory.
type Document struct {
	RelPath string
	ModTime int64
	Record  *content.Extracted
	RunID   string
}

// fingerprint hashes the whole encoded record except its parse time, so
// edits to translations, config files or assets count as changes even when
// the main file's content hash is the same.
func fingerprint(rec *content.Extracted) (string, error) {
	c := *rec
	c.ParsedAt = time.Time{}
	data, err := json.Marshal(&c)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// StoredRecord is a record as read back from the index. Data holds the full
// JSON encoding of the extracted record.
type StoredRecord struct {
	RelPath      string
	ContentType  string
	Title        string
	Slug         string
	Language     string
	ContentHash  string
	Quality      float64
	Valid        bool
	ErrorCount   int
	WarningCount int
	FileMtime    int64
	IndexedAt    time.Time
	RunID        string
	Data         json.RawMessage
}

// Upsert stores doc. A record whose fingerprint matches the stored one is
// left alone apart from its run id.
func (d *Database) Upsert(doc Document) (UpsertResult, error) {
	rec := doc.Record
	if rec == nil {
		return "", fmt.Errorf("upsert %s: nil record", doc.RelPath)
	}
	if doc.RelPath == "" {
		return "", errors.New("upsert: empty relative path")
	}

	tx, err := d.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	fp, err := fingerprint(rec)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", doc.RelPath, err)
	}

	var stored string
	err = tx.QueryRow("SELECT fingerprint FROM records WHERE rel_path = ?", doc.RelPath).Scan(&stored)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("lookup %s: %w", doc.RelPath, err)
	}

	if exists && stored == fp {
		if _, err := tx.Exec("UPDATE records SET run_id = ? WHERE rel_path = ?", nullString(doc.RunID), doc.RelPath); err != nil {
			return "", err
		}
		return Unchanged, tx.Commit()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", doc.RelPath, err)
	}

	var title, slug string
	if rec.MainEntity != nil {
		title, slug = rec.MainEntity.Identity()
	}
	var parsedAt any
	if !rec.ParsedAt.IsZero() {
		parsedAt = rec.ParsedAt.Unix()
	}

	if err := deleteChildRows(tx, doc.RelPath); err != nil {
		return "", err
	}
	_, err = tx.Exec(`
		INSERT INTO records (rel_path, content_type, title, slug, language, content_hash, fingerprint, quality,
			valid, error_count, warning_count, data, file_mtime, parsed_at, indexed_at, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(rel_path) DO UPDATE SET
			content_type = excluded.content_type,
			title = excluded.title,
			slug = excluded.slug,
			language = excluded.language,
			content_hash = excluded.content_hash,
			fingerprint = excluded.fingerprint,
			quality = excluded.quality,
			valid = excluded.valid,
			error_count = excluded.error_count,
			warning_count = excluded.warning_count,
			data = excluded.data,
			file_mtime = excluded.file_mtime,
			parsed_at = excluded.parsed_at,
			indexed_at = excluded.indexed_at,
			run_id = excluded.run_id
	`,
		doc.RelPath, string(rec.ContentType), title, slug, rec.Language, rec.ContentHash, fp, rec.ExtractionQuality,
		boolToInt(rec.Valid()), len(rec.ValidationErrors), len(rec.ValidationWarnings), string(data),
		doc.ModTime, parsedAt, time.Now().Unix(), nullString(doc.RunID))
	if err != nil {
		return "", fmt.Errorf("store %s: %w", doc.RelPath, err)
	}

	techStmt, err := tx.Prepare(`INSERT OR IGNORE INTO record_technologies (rel_path, name, category, source, proficiency, sort_order) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer techStmt.Close()
	for _, t := range rec.Technologies {
		if _, err := techStmt.Exec(doc.RelPath, t.Name, t.Category, t.Source, t.Proficiency, t.SortOrder); err != nil {
			return "", fmt.Errorf("store technology %s: %w", t.Name, err)
		}
	}

	tagStmt, err := tx.Prepare(`INSERT OR IGNORE INTO record_tags (rel_path, tag) VALUES (?, ?)`)
	if err != nil {
		return "", err
	}
	defer tagStmt.Close()
	for _, tag := range rec.Tags {
		if _, err := tagStmt.Exec(doc.RelPath, tag); err != nil {
			return "", fmt.Errorf("store tag %s: %w", tag, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO records_fts (rel_path, title, content) VALUES (?, ?, ?)`,
		doc.RelPath, title, searchText(rec)); err != nil {
		return "", fmt.Errorf("index text for %s: %w", doc.RelPath, err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	if exists {
		return Updated, nil
	}
	return Inserted, nil
}

const recordColumns = `rel_path, content_type, title, slug, language, content_hash, quality, valid,
	error_count, warning_count, COALESCE(file_mtime, 0), indexed_at, COALESCE(run_id, ''), data`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*StoredRecord, error) {
	var r StoredRecord
	var valid int
	var indexedAt int64
	var data string
	err := row.Scan(&r.RelPath, &r.ContentType, &r.Title, &r.Slug, &r.Language, &r.ContentHash, &r.Quality,
		&valid, &r.ErrorCount, &r.WarningCount, &r.FileMtime, &indexedAt, &r.RunID, &data)
	if err != nil {
		return nil, err
	}
	r.Valid = valid == 1
	r.IndexedAt = time.Unix(indexedAt, 0)
	r.Data = json.RawMessage(data)
	return &r, nil
}

// Get returns the record stored for relPath.
func (d *Database) Get(relPath string) (*StoredRecord, error) {
	row := d.db.QueryRow("SELECT "+recordColumns+" FROM records WHERE rel_path = ?", relPath)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	return r, err
}

// ListOptions filters List. Zero values match everything.
type ListOptions struct {
	Type       string
	Technology string
	Tag        string
	ValidOnly  bool
	Limit      int
}

// List returns stored records ordered by relative path.
func (d *Database) List(opts ListOptions) ([]*StoredRecord, error) {
	var conds []string
	var args []any
	if opts.Type != "" {
		conds = append(conds, "content_type = ?")
		args = append(args, opts.Type)
	}
	if opts.Technology != "" {
		conds = append(conds, "rel_path IN (SELECT rel_path FROM record_technologies WHERE name = ? COLLATE NOCASE)")
		args = append(args, opts.Technology)
	}
	if opts.Tag != "" {
		conds = append(conds, "rel_path IN (SELECT rel_path FROM record_tags WHERE tag = ?)")
		args = append(args, strings.ToLower(strings.TrimPrefix(opts.Tag, "#")))
	}
	if opts.ValidOnly {
		conds = append(conds, "valid = 1")
	}

	query := "SELECT " + recordColumns + " FROM records"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY rel_path"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return sqlutil.ScanRows(rows, func(r *sql.Rows) (*StoredRecord, error) {
		return scanRecord(r)
	})
}

// AllRelPaths returns every stored relative path in order.
func (d *Database) AllRelPaths() ([]string, error) {
	rows, err := d.db.Query("SELECT rel_path FROM records ORDER BY rel_path")
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanStrings(rows)
}

// Remove deletes the record stored for relPath.
func (d *Database) Remove(relPath string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := deleteByRelPath(tx, relPath); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveMissing deletes records under prefix whose path is not in keep and
// returns the removed paths. An empty prefix covers the whole index.
func (d *Database) RemoveMissing(prefix string, keep []string) ([]string, error) {
	paths, err := d.AllRelPaths()
	if err != nil {
		return nil, err
	}
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}
	prefix = strings.TrimSuffix(prefix, "/")

	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var removed []string
	for _, p := range paths {
		if !keepSet[p] && underPrefix(p, prefix) {
			removed = append(removed, p)
		}
	}
	if err := deleteByRelPaths(tx, removed); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return removed, nil
}

func underPrefix(relPath, prefix string) bool {
	if prefix == "" || prefix == "." {
		return true
	}
	return relPath == prefix || strings.HasPrefix(relPath, prefix+"/")
}

// SearchResult represents a full-text search hit.
type SearchResult struct {
	RelPath     string
	ContentType string
	Title       string
	Snippet     string
	Rank        float64
}

// Search runs a full-text query over titles and record text. The query
// supports FTS5 syntax: words, "phrases", AND/OR/NOT and prefix*.
// Results are ranked by relevance (best matches first).
func (d *Database) Search(query, contentType string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.db.Query(`
		SELECT
			f.rel_path,
			r.content_type,
			r.title,
			snippet(records_fts, 2, '»', '«', '...', 24) AS snippet,
			bm25(records_fts) AS rank
		FROM records_fts f
		JOIN records r ON r.rel_path = f.rel_path
		WHERE records_fts MATCH ? AND (? = '' OR r.content_type = ?)
		ORDER BY rank
		LIMIT ?
	`, BuildFTSQuery(query), contentType, contentType, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return sqlutil.ScanRows(rows, func(r *sql.Rows) (SearchResult, error) {
		var res SearchResult
		err := r.Scan(&res.RelPath, &res.ContentType, &res.Title, &res.Snippet, &res.Rank)
		return res, err
	})
}

// TechnologyCount is one technology's usage across the index.
type TechnologyCount struct {
	Name     string
	Category string
	Records  int
}

// Technologies returns technology usage, most used first.
func (d *Database) Technologies() ([]TechnologyCount, error) {
	rows, err := d.db.Query(`
		SELECT name, MIN(category), COUNT(*) AS n
		FROM record_technologies
		GROUP BY name COLLATE NOCASE
		ORDER BY n DESC, name
	`)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(r *sql.Rows) (TechnologyCount, error) {
		var tc TechnologyCount
		err := r.Scan(&tc.Name, &tc.Category, &tc.Records)
		return tc, err
	})
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
