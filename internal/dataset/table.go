// Package dataset holds the flat, row-oriented tables produced by the
// collectors and read from word-list files.
package dataset

import (
	"fmt"
	"sort"
	"time"
)

// Row maps column names to cell values.
type Row map[string]string

// Table is an ordered set of columns and independent rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// TimeLayout is the cell format for timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds a row. Keys outside the column set are kept in the row but
// not listed in Columns.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Values returns the cells of one column in row order.
func (t *Table) Values(column string) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[column]
	}
	return out
}

// Filter returns a new table with the same columns holding the rows for
// which keep returns true, in their original order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.Columns...)
	for _, r := range t.Rows {
		if keep(r) {
			out.Append(r)
		}
	}
	return out
}

// SortByTime orders rows by a timestamp column in TimeLayout format,
// oldest first. The sort is stable.
func (t *Table) SortByTime(column string) error {
	if !t.HasColumn(column) {
		return fmt.Errorf("dataset: unknown column %q", column)
	}

	keys := make([]time.Time, len(t.Rows))
	for i, r := range t.Rows {
		ts, err := time.Parse(TimeLayout, r[column])
		if err != nil {
			return fmt.Errorf("dataset: row %d: %w", i, err)
		}
		keys[i] = ts
	}

	idx := make([]int, len(t.Rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]].Before(keys[idx[b]])
	})

	sorted := make([]Row, len(t.Rows))
	for i, j := range idx {
		sorted[i] = t.Rows[j]
	}
	t.Rows = sorted
	return nil
}

// ColumnsFromRows returns the sorted union of keys across rows, with the
// given leading columns first when present.
func ColumnsFromRows(rows []Row, leading ...string) []string {
	seen := make(map[string]bool)
	for _, r := range rows {
		for k := range r {
			seen[k] = true
		}
	}

	cols := make([]string, 0, len(seen))
	for _, c := range leading {
		if seen[c] {
			cols = append(cols, c)
			delete(seen, c)
		}
	}

	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)

	return append(cols, rest...)
}
