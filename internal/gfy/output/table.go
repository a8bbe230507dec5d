package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table lays out gfycat, user and collection listings in padded columns.
// Widths count runes, so titles with non-ASCII text stay aligned.
type Table struct {
	out     io.Writer
	headers []string
	rows    [][]string
	silent  bool
}

// Table starts a listing written to the printer's output. Nothing is
// rendered in quiet or JSON mode.
func (p *Printer) Table(headers ...string) *Table {
	return &Table{out: p.out, headers: headers, silent: p.silent()}
}

func (t *Table) Append(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Render() {
	if t.silent {
		return
	}
	widths := make([]int, len(t.headers))
	for _, row := range append([][]string{t.headers}, t.rows...) {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	var line strings.Builder
	for _, row := range append([][]string{t.headers}, t.rows...) {
		line.Reset()
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(cell)
			if i < len(widths) {
				line.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
			}
		}
		fmt.Fprintln(t.out, strings.TrimRight(line.String(), " "))
	}
}
