package index

import "strings"

// BuildFTSQuery builds a safe FTS5 MATCH query over the title and content
// columns that avoids parser footguns with hyphenated tokens.
//
// The returned string is meant to be passed as the RHS of `records_fts MATCH ?`.
func BuildFTSQuery(userQuery string) string {
	q := strings.TrimSpace(userQuery)
	if q == "" {
		// Match nothing.
		return `content:""`
	}

	// Parentheses keep the column filter applied to boolean operators.
	return "{title content}: (" + sanitizeFTSQuery(q) + ")"
}

// sanitizeFTSQuery quotes unquoted tokens containing '-' or '.' so SQLite FTS
// does not read them as operators or column names. Quoted phrases, boolean
// operators and parentheses are kept.
func sanitizeFTSQuery(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)

	inQuotes := false
	i := 0
	for i < len(q) {
		c := q[i]

		if c == '"' {
			inQuotes = !inQuotes
			b.WriteByte(c)
			i++
			continue
		}

		if inQuotes || isFTSSpace(c) || c == '(' || c == ')' {
			b.WriteByte(c)
			i++
			continue
		}

		start := i
		for i < len(q) {
			cc := q[i]
			if cc == '"' || cc == '(' || cc == ')' || isFTSSpace(cc) {
				break
			}
			i++
		}
		tok := q[start:i]

		switch strings.ToUpper(tok) {
		case "AND", "OR", "NOT", "NEAR":
			b.WriteString(tok)
			continue
		}

		// Quote hyphenated or dotted tokens (but leave a leading '-' alone).
		if strings.ContainsAny(tok, "-.:+#") && !strings.HasPrefix(tok, "-") {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(tok, `"`, `""`))
			b.WriteByte('"')
			continue
		}

		b.WriteString(tok)
	}

	return b.String()
}

func isFTSSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
