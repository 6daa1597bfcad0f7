package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/sqlutil"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// recordTables hold rows keyed by rel_path. records itself goes last so the
// cascade has nothing left to do.
var recordTables = []string{"record_technologies", "record_tags", "records_fts", "records"}

func deleteByRelPath(e execer, relPath string) error {
	for _, table := range recordTables {
		if _, err := e.Exec("DELETE FROM "+table+" WHERE rel_path = ?", relPath); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

// deleteByRelPaths removes many records, batching the IN lists.
func deleteByRelPaths(e execer, relPaths []string) error {
	for _, chunk := range sqlutil.Chunks(relPaths, sqlutil.MaxParams) {
		ph, args := sqlutil.Placeholders(chunk)
		for _, table := range recordTables {
			if _, err := e.Exec("DELETE FROM "+table+" WHERE rel_path IN ("+ph+")", args...); err != nil {
				return fmt.Errorf("delete from %s: %w", table, err)
			}
		}
	}
	return nil
}

func deleteChildRows(e execer, relPath string) error {
	for _, table := range recordTables[:3] {
		if _, err := e.Exec("DELETE FROM "+table+" WHERE rel_path = ?", relPath); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// searchText flattens the string values of a record's main entity, tags,
// categories and technology names into one block for full-text search.
func searchText(rec *content.Extracted) string {
	var parts []string
	if rec.MainEntity != nil {
		if data, err := json.Marshal(rec.MainEntity); err == nil {
			var v any
			if json.Unmarshal(data, &v) == nil {
				parts = collectStrings(v, parts)
			}
		}
	}
	parts = append(parts, rec.Tags...)
	parts = append(parts, rec.Categories...)
	for _, t := range rec.Technologies {
		parts = append(parts, t.Name)
	}
	for _, tr := range rec.Translations {
		parts = append(parts, tr.Title, tr.Description, tr.Content)
	}
	return strings.Join(parts, "\n")
}

func collectStrings(v any, out []string) []string {
	switch val := v.(type) {
	case string:
		if val != "" {
			out = append(out, val)
		}
	case []any:
		for _, item := range val {
			out = collectStrings(item, out)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = collectStrings(val[k], out)
		}
	}
	return out
}
