package tui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Alignment is the text alignment inside a column.
type Alignment int

// Alignment constants.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// TableColumn defines one column. Width is measured in terminal cells.
type TableColumn struct {
	Name  string
	Width int
	Align Alignment
}

// Table renders fixed-width rows. Cell widths are computed in terminal
// cells so CJK descriptions line up.
type Table struct {
	w       io.Writer
	styles  *OutputStyles
	columns []TableColumn
}

// NewTable creates a table writing to w.
func NewTable(w io.Writer, columns []TableColumn) *Table {
	return &Table{w: w, styles: NewOutputStyles(), columns: columns}
}

// WriteHeader writes the header row.
func (t *Table) WriteHeader() {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		cells[i] = pad(col.Name, col)
	}
	t.writeLine(t.styles.Header.Render(strings.Join(cells, " ")))
}

// WriteRow writes a row of plain values. Missing values render empty.
func (t *Table) WriteRow(values ...string) {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		cells[i] = pad(value, col)
	}
	t.writeLine(strings.Join(cells, " "))
}

// WriteStyledRow writes a row where cell styledIndex is rendered with
// color. Padding is computed from the plain value.
func (t *Table) WriteStyledRow(values []string, styledIndex int, color lipgloss.TerminalColor) {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		cell := pad(value, col)
		if i == styledIndex {
			cell = lipgloss.NewStyle().Foreground(color).Render(cell)
		}
		cells[i] = cell
	}
	t.writeLine(strings.Join(cells, " "))
}

func (t *Table) writeLine(s string) {
	_, _ = io.WriteString(t.w, strings.TrimRight(s, " ")+"\n")
}

func pad(value string, col TableColumn) string {
	if col.Width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) > col.Width {
		value = runewidth.Truncate(value, col.Width, "…")
	}
	if col.Align == AlignRight {
		return runewidth.FillLeft(value, col.Width)
	}
	return runewidth.FillRight(value, col.Width)
}
