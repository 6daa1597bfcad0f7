package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aidanlsb/quill/internal/dates"
)

// Metadata is the decoded frontmatter of a content item, optionally merged
// with a folder's config.yaml. Lookups accept several keys and use the first
// one present with a non-empty value, so parsers can honor field synonyms.
type Metadata map[string]any

// Lookup returns the first non-nil value among keys.
func (m Metadata) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			return v, true
		}
	}
	return nil, false
}

// Has reports whether any of keys holds a non-empty value.
func (m Metadata) Has(keys ...string) bool {
	_, ok := m.Lookup(keys...)
	return ok
}

// String returns the first value among keys rendered as a trimmed string.
func (m Metadata) String(keys ...string) string {
	v, ok := m.Lookup(keys...)
	if !ok {
		return ""
	}
	return scalarString(v)
}

// StringList returns the first value among keys as a list of trimmed,
// non-empty strings. Scalar strings are split on commas.
func (m Metadata) StringList(keys ...string) []string {
	v, ok := m.Lookup(keys...)
	if !ok {
		return nil
	}
	return toStringList(v)
}

// Bool returns the first value among keys interpreted as a boolean.
func (m Metadata) Bool(keys ...string) (bool, bool) {
	v, ok := m.Lookup(keys...)
	if !ok {
		return false, false
	}
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y", "on", "1":
			return true, true
		case "false", "no", "n", "off", "0":
			return false, true
		}
	case int:
		return val != 0, true
	}
	return false, false
}

// Float returns the first value among keys interpreted as a number.
func (m Metadata) Float(keys ...string) (float64, bool) {
	v, ok := m.Lookup(keys...)
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int returns the first value among keys as an integer, truncating floats.
func (m Metadata) Int(keys ...string) (int, bool) {
	f, ok := m.Float(keys...)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Date returns the first value among keys interpreted as a date.
func (m Metadata) Date(keys ...string) (time.Time, bool) {
	v, ok := m.Lookup(keys...)
	if !ok {
		return time.Time{}, false
	}
	return dates.FromValue(v)
}

// Map returns a nested mapping value, or nil.
func (m Metadata) Map(keys ...string) Metadata {
	v, ok := m.Lookup(keys...)
	if !ok {
		return nil
	}
	if nested, isMap := v.(map[string]any); isMap {
		return Metadata(nested)
	}
	return nil
}

// List returns the first value among keys as a raw list.
func (m Metadata) List(keys ...string) []any {
	v, ok := m.Lookup(keys...)
	if !ok {
		return nil
	}
	if list, isList := v.([]any); isList {
		return list
	}
	return nil
}

// Merge returns a copy of m overlaid with over. Nested mappings are merged one
// level deep; all other values in over replace those in m.
func (m Metadata) Merge(over Metadata) Metadata {
	out := make(Metadata, len(m)+len(over))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range over {
		base, baseIsMap := out[k].(map[string]any)
		top, topIsMap := v.(map[string]any)
		if baseIsMap && topIsMap {
			merged := make(map[string]any, len(base)+len(top))
			for bk, bv := range base {
				merged[bk] = bv
			}
			for tk, tv := range top {
				merged[tk] = tv
			}
			out[k] = merged
			continue
		}
		out[k] = v
	}
	return out
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case time.Time:
		return dates.Format(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any, map[string]any:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func toStringList(v any) []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if nested, ok := item.(map[string]any); ok {
				// Lists of single-key mappings ("- name: Go") use the name.
				if name, ok := nested["name"]; ok {
					add(scalarString(name))
				}
				continue
			}
			add(scalarString(item))
		}
	case []string:
		for _, item := range val {
			add(item)
		}
	case string:
		for _, part := range strings.Split(val, ",") {
			add(part)
		}
	default:
		add(scalarString(val))
	}
	return out
}
