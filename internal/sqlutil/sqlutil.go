// Package sqlutil holds small helpers shared by the index queries.
package sqlutil

import (
	"database/sql"
	"strings"
)

// MaxParams bounds the placeholders in one statement. SQLite builds older
// than 3.32 reject more than 999 host parameters.
const MaxParams = 900

// Placeholders returns a comma-separated list of "?" placeholders and the
// matching args. An empty items yields "NULL" so `IN (NULL)` matches nothing.
func Placeholders[T any](items []T) (string, []any) {
	if len(items) == 0 {
		return "NULL", nil
	}
	args := make([]any, len(items))
	for i, item := range items {
		args[i] = item
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(items)), ", "), args
}

// Chunks splits items into consecutive slices of at most size elements.
func Chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = MaxParams
	}
	var out [][]T
	for len(items) > size {
		out = append(out, items[:size:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}

// ScanRows drains rows through scan and closes them.
func ScanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ScanStrings collects a single string column.
func ScanStrings(rows *sql.Rows) ([]string, error) {
	return ScanRows(rows, func(r *sql.Rows) (string, error) {
		var s string
		err := r.Scan(&s)
		return s, err
	})
}
