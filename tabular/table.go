// Package tabular provides the in-memory tabular buffer parsed from
// delimited text files: named columns, best-effort inferred types, and
// nullable cells. A Table is created, converted, and discarded per dataset;
// nothing is shared between datasets.
package tabular

import (
	"fmt"
	"time"
)

// Kind is the inferred logical type of a column.
type Kind int

// Column kinds, from most to least specific.
const (
	// KindString holds arbitrary text; also the fallback for mixed columns
	KindString Kind = iota

	// KindInt64 holds whole numbers
	KindInt64

	// KindFloat64 holds decimal numbers (and promoted mixed int/float columns)
	KindFloat64

	// KindBool holds true/false values
	KindBool

	// KindDate holds calendar dates without a time component
	KindDate

	// KindTimestamp holds dates with a time component
	KindTimestamp
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindTimestamp:
		return "timestamp"
	default:
		return "string"
	}
}

// Column describes one named, typed column of a Table.
type Column struct {
	// Name is the column name taken from the header row
	Name string

	// Kind is the inferred logical type
	Kind Kind
}

// Table is an in-memory table with named columns and nullable string cells.
// Cells keep their decoded text form; Value converts a cell to its typed
// representation according to the column's inferred kind.
type Table struct {
	columns []Column
	rows    [][]*string
}

// Columns returns the table's column descriptors in header order.
func (t *Table) Columns() []Column {
	return t.columns
}

// NumRows returns the number of data rows (header excluded).
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// IsNull reports whether the cell at (row, col) is null. Empty cells in the
// source file are nulls.
func (t *Table) IsNull(row, col int) bool {
	return t.rows[row][col] == nil
}

// Raw returns the decoded text of the cell at (row, col), or "" for nulls.
func (t *Table) Raw(row, col int) string {
	if t.rows[row][col] == nil {
		return ""
	}
	return *t.rows[row][col]
}

// Value returns the typed value of the cell at (row, col) according to the
// column kind: int64, float64, bool, time.Time (dates and timestamps, UTC),
// or string. Null cells return nil.
func (t *Table) Value(row, col int) (any, error) {
	cell := t.rows[row][col]
	if cell == nil {
		return nil, nil
	}

	switch t.columns[col].Kind {
	case KindInt64:
		v, err := parseInt(*cell)
		if err != nil {
			return nil, fmt.Errorf("tabular: row %d column %q: %w", row, t.columns[col].Name, err)
		}
		return v, nil
	case KindFloat64:
		v, err := parseFloat(*cell)
		if err != nil {
			return nil, fmt.Errorf("tabular: row %d column %q: %w", row, t.columns[col].Name, err)
		}
		return v, nil
	case KindBool:
		v, err := parseBool(*cell)
		if err != nil {
			return nil, fmt.Errorf("tabular: row %d column %q: %w", row, t.columns[col].Name, err)
		}
		return v, nil
	case KindDate:
		v, err := parseDate(*cell)
		if err != nil {
			return nil, fmt.Errorf("tabular: row %d column %q: %w", row, t.columns[col].Name, err)
		}
		return v, nil
	case KindTimestamp:
		v, err := parseTimestamp(*cell)
		if err != nil {
			return nil, fmt.Errorf("tabular: row %d column %q: %w", row, t.columns[col].Name, err)
		}
		return v, nil
	default:
		return *cell, nil
	}
}

// TypedRow returns all cells of a row as typed values, nulls as nil.
func (t *Table) TypedRow(row int) ([]any, error) {
	out := make([]any, t.NumColumns())
	for col := range t.columns {
		v, err := t.Value(row, col)
		if err != nil {
			return nil, err
		}
		out[col] = v
	}
	return out, nil
}

// epoch is the reference day for date arithmetic.
var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// DaysSinceEpoch converts a date value to whole days since 1970-01-01 UTC.
func DaysSinceEpoch(t time.Time) int32 {
	return int32(t.UTC().Truncate(24*time.Hour).Sub(epoch) / (24 * time.Hour))
}

// DateFromDays converts whole days since 1970-01-01 back to a UTC date.
func DateFromDays(days int32) time.Time {
	return epoch.AddDate(0, 0, int(days))
}
