package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table renders rows of data in aligned columns. Cells wider than the
// table's limit are cut and end in "...".
type Table struct {
	w        *tabwriter.Writer
	headers  []string
	maxWidth int
}

// NewTable creates a new table writer with the given column headers.
func NewTable(out io.Writer, headers ...string) *Table {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	t := &Table{w: tw, headers: headers}
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return t
}

// SetMaxWidth limits every cell to n runes. Zero disables the limit.
func (t *Table) SetMaxWidth(n int) {
	t.maxWidth = n
}

// Row appends a row of values. Slices of strings are joined with ", ".
func (t *Table) Row(values ...any) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = t.cell(v)
	}
	_, _ = fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

// Flush writes the buffered output.
func (t *Table) Flush() error {
	return t.w.Flush()
}

func (t *Table) cell(v any) string {
	var s string
	switch v := v.(type) {
	case []string:
		s = strings.Join(v, ", ")
	default:
		s = fmt.Sprintf("%v", v)
	}
	if s == "" {
		s = "-"
	}
	r := []rune(s)
	if t.maxWidth > 3 && len(r) > t.maxWidth {
		s = string(r[:t.maxWidth-3]) + "..."
	}
	return s
}
