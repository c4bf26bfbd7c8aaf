package table

import (
	"strings"

	"github.com/cognicore/onehot/pkg/onehot/ingest"
)

// ColumnType tells sinks how to store a column.
type ColumnType int

const (
	// TypeText is free text, stored as-is.
	TypeText ColumnType = iota
	// TypeInteger holds encoded counts.
	TypeInteger
)

// Table is an in-memory rectangular dataset with a header row.
// Rows may be shorter than Columns; missing cells read as absent.
type Table struct {
	Columns []string
	Types   []ColumnType
	Rows    [][]string
}

// New creates an empty table with text columns.
func New(columns []string) *Table {
	return &Table{
		Columns: columns,
		Types:   make([]ColumnType, len(columns)),
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Columns)
}

// ColumnIndex finds a column by exact name, then case-insensitively with
// surrounding spaces ignored.
// It returns -1 when nothing matches.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	for i, col := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(col), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// TypeOf returns the declared type of column i, defaulting to text.
func (t *Table) TypeOf(i int) ColumnType {
	if i < 0 || i >= len(t.Types) {
		return TypeText
	}
	return t.Types[i]
}

// Value returns the raw cell text, "" when the row is short.
func (t *Table) Value(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Cell returns the cell as a normalizer input. Empty and missing cells are
// absent, the way a spreadsheet treats a blank.
func (t *Table) Cell(row, col int) ingest.Input {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ingest.Absent()
	}
	v := t.Rows[row][col]
	if v == "" {
		return ingest.Absent()
	}
	return ingest.Text(v)
}

// Head returns a table sharing the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{
		Columns: t.Columns,
		Types:   t.Types,
		Rows:    t.Rows[:n],
	}
}

// DuplicateColumns lists column names that occur more than once.
func (t *Table) DuplicateColumns() []string {
	seen := make(map[string]int, len(t.Columns))
	var dups []string
	for _, col := range t.Columns {
		seen[col]++
		if seen[col] == 2 {
			dups = append(dups, col)
		}
	}
	return dups
}
