package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows as space-aligned columns without borders. Widths are
// measured on the visible text so styled cells line up.
type Table struct {
	header     []string
	rows       [][]string
	colWidths  []int
	colPadding int
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	t := &Table{colWidths: make([]int, len(headers)), colPadding: 2}
	t.header = make([]string, len(headers))
	for i, h := range headers {
		t.header[i] = Muted.Render(strings.ToUpper(h))
		t.colWidths[i] = lipgloss.Width(t.header[i])
	}
	return t
}

// AddRow adds a row; missing cells are blank and extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := lipgloss.Width(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the header and rows.
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	t.writeRow(&sb, t.header)
	for _, row := range t.rows {
		t.writeRow(&sb, row)
	}
	return sb.String()
}

func (t *Table) writeRow(sb *strings.Builder, row []string) {
	padding := strings.Repeat(" ", t.colPadding)
	for i, cell := range row {
		if i > 0 {
			sb.WriteString(padding)
		}
		sb.WriteString(cell)
		if i < len(row)-1 {
			sb.WriteString(strings.Repeat(" ", t.colWidths[i]-lipgloss.Width(cell)))
		}
	}
	sb.WriteString("\n")
}
