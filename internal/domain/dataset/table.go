package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the native storage kind of a column as detected at load time.
type Kind string

const (
	KindNumeric  Kind = "numeric"
	KindDatetime Kind = "datetime"
	KindObject   Kind = "object"
)

// Table is an in-memory rectangular dataset keyed by filename.
// Immutable after load; the loader is the only writer.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
	Kinds   []Kind // parallel to Columns, set by the loader
}

// layouts dicoba berurutan saat parsing tanggal
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// ParseDate tries the known layouts in order.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses a cell as a float. Empty cells are missing, not zero.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseBool coerces churn-style indicator cells (true/false, 1/0, yes/no).
// Cells that are empty after trimming are missing, not false.
func ParseBool(s string) (bool, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return false, false
	case "true", "1", "yes", "y", "t":
		return true, true
	case "false", "0", "no", "n", "f":
		return false, true
	}
	// Nonzero numerics count as true, pandas-style astype(bool)
	if v, ok := ParseNumber(s); ok {
		return v != 0, true
	}
	return false, false
}

func (t *Table) RowCount() int { return len(t.Rows) }

func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Kind returns the native kind of the named column, KindObject when unknown.
func (t *Table) Kind(name string) Kind {
	i := t.ColumnIndex(name)
	if i < 0 || i >= len(t.Kinds) {
		return KindObject
	}
	return t.Kinds[i]
}

// Column returns the raw string cells of one column.
func (t *Table) Column(name string) []string {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if i < len(row) {
			out = append(out, row[i])
		} else {
			out = append(out, "")
		}
	}
	return out
}

// NumericColumn coerces a column to floats, dropping missing cells.
func (t *Table) NumericColumn(name string) []float64 {
	var out []float64
	for _, cell := range t.Column(name) {
		if v, ok := ParseNumber(cell); ok {
			out = append(out, v)
		}
	}
	return out
}
