package markdown

import "strings"

// FenceState tracks whether we're inside a fenced code block.
type FenceState struct {
	InFence  bool
	FenceCh  byte
	FenceLen int
}

// parseFenceMarker checks if a line (after trimming) starts a code fence.
func parseFenceMarker(line string) (ch byte, n int, ok bool) {
	s := strings.TrimLeft(line, " \t")
	for strings.HasPrefix(s, ">") {
		s = strings.TrimLeft(strings.TrimPrefix(s, ">"), " \t")
	}
	if len(s) < 3 {
		return 0, 0, false
	}
	ch = s[0]
	if ch != '`' && ch != '~' {
		return 0, 0, false
	}
	for n < len(s) && s[n] == ch {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	return ch, n, true
}

// Update updates the fence state based on a line.
// Returns true if the line is a fence marker (opening or closing).
func (fs *FenceState) Update(line string) bool {
	ch, n, ok := parseFenceMarker(line)
	if !ok {
		return false
	}

	if !fs.InFence {
		fs.InFence = true
		fs.FenceCh = ch
		fs.FenceLen = n
		return true
	}

	if fs.FenceCh == ch && n >= fs.FenceLen {
		fs.InFence = false
		fs.FenceCh = 0
		fs.FenceLen = 0
		return true
	}

	return false
}

// ProseLines returns the lines of content that are outside fenced code blocks.
func ProseLines(content string) []string {
	var fs FenceState
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if fs.Update(line) || fs.InFence {
			continue
		}
		out = append(out, line)
	}
	return out
}

// removeInlineCode blanks out inline code spans, keeping byte positions.
func removeInlineCode(line string) string {
	result := []byte(line)
	i := 0
	for i < len(result) {
		if result[i] != '`' {
			i++
			continue
		}
		start := i
		openLen := 0
		for i < len(result) && result[i] == '`' {
			openLen++
			i++
		}
		for j := i; j < len(result); {
			if result[j] != '`' {
				j++
				continue
			}
			closeLen := 0
			for j < len(result) && result[j] == '`' {
				closeLen++
				j++
			}
			if closeLen == openLen {
				for k := start; k < j; k++ {
					result[k] = ' '
				}
				i = j
				break
			}
		}
	}
	return string(result)
}
