// Package table renders simple ASCII tables whose cells may contain ANSI
// color codes.
package table

import (
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Alignment controls how a cell is padded within its column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// visibleWidth returns the number of runes that s occupies on screen.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(stripAnsi(s))
}

// Table accumulates rows and renders them to a writer.
type Table struct {
	writer          io.Writer
	header          []string
	rows            [][]string
	columnAlignment []Alignment
	headerAlignment []Alignment
}

// NewTable returns an empty table that renders to w.
func NewTable(w io.Writer) *Table {
	return &Table{writer: w}
}

// WithHeader sets the header row.
func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

// WithColumnAlignment sets the alignment of body cells per column.
func (t *Table) WithColumnAlignment(alignment []Alignment) *Table {
	t.columnAlignment = alignment
	return t
}

// WithHeaderAlignment sets the alignment of header cells per column.
func (t *Table) WithHeaderAlignment(alignment []Alignment) *Table {
	t.headerAlignment = alignment
	return t
}

// WithRows appends several rows.
func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = append(t.rows, rows...)
	return t
}

// Append adds a row.
func (t *Table) Append(row []string) {
	t.rows = append(t.rows, row)
}

// Render writes the table.
func (t *Table) Render() {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return
	}
	var b strings.Builder
	border := separator(widths)
	b.WriteString(border)
	if len(t.header) > 0 {
		writeRow(&b, t.header, widths, t.headerAlignment)
		b.WriteString(border)
	}
	for _, row := range t.rows {
		writeRow(&b, row, widths, t.columnAlignment)
	}
	if len(t.rows) > 0 {
		b.WriteString(border)
	}
	io.WriteString(t.writer, b.String())
}

func (t *Table) columnWidths() []int {
	var widths []int
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], visibleWidth(cell))
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func separator(widths []int) string {
	var b strings.Builder
	b.WriteString("+")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("+")
	}
	b.WriteString("\n")
	return b.String()
}

func writeRow(b *strings.Builder, row []string, widths []int, alignment []Alignment) {
	b.WriteString("|")
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		align := AlignLeft
		if i < len(alignment) {
			align = alignment[i]
		}
		b.WriteString(" ")
		b.WriteString(pad(cell, w, align))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func pad(s string, width int, align Alignment) string {
	gap := width - visibleWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
