package content

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontmatterBounds returns the index of the closing frontmatter fence line.
// Frontmatter is only recognized when the first line is '---'. ok is false
// when there is no opening fence; endLine is -1 when the block is unclosed.
func FrontmatterBounds(lines []string) (endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(strings.TrimPrefix(lines[0], "\ufeff")) != "---" {
		return -1, false
	}
	for i := 1; i < len(lines); i++ {
		switch strings.TrimSpace(lines[i]) {
		case "---", "...":
			return i, true
		}
	}
	return -1, true
}

// SplitFrontmatter separates a YAML frontmatter block from the markdown body.
// Content without a closed frontmatter block yields empty metadata and the
// whole input as body. Unparseable YAML yields an error wrapping
// ErrMalformedFrontmatter.
func SplitFrontmatter(raw string) (Metadata, string, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return Metadata{}, strings.TrimPrefix(raw, "\ufeff"), nil
	}

	block := strings.Join(lines[1:endLine], "\n")
	body := strings.Join(lines[endLine+1:], "\n")

	var data map[string]any
	if err := yaml.Unmarshal([]byte(block), &data); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedFrontmatter, err)
	}
	// An empty or comment-only block decodes to a nil map.
	if data == nil {
		data = map[string]any{}
	}
	return Metadata(normalizeMap(data)), body, nil
}

// normalizeMap converts nested YAML maps with non-string keys into
// map[string]any so metadata always marshals to JSON.
func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeMap(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[fmt.Sprint(k)] = normalizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}
