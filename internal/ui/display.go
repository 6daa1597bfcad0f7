package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is the fallback terminal width when detection fails.
const DefaultTermWidth = 100

// DisplayContext holds display parameters for one output stream.
type DisplayContext struct {
	TermWidth int  // detected or fallback terminal width
	IsTTY     bool // whether the stream is a terminal
}

// NewDisplayContext detects the dimensions of f. A nil f means stdout.
func NewDisplayContext(f *os.File) *DisplayContext {
	if f == nil {
		f = os.Stdout
	}
	fd := f.Fd()
	isTTY := term.IsTerminal(fd)

	width := DefaultTermWidth
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	return &DisplayContext{
		TermWidth: width,
		IsTTY:     isTTY,
	}
}

// NewDisplayContextWithWidth creates a DisplayContext with a fixed width (for testing).
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{
		TermWidth: width,
		IsTTY:     true,
	}
}

// WrapWidth returns the width used for rendered markdown, leaving room for
// the render margin and capped for readability.
func (d *DisplayContext) WrapWidth() int {
	w := d.TermWidth - 2*MarkdownRenderMargin
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}
