package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/autofmu/errs"
)

// Table is an immutable column-oriented dataset.
type Table struct {
	names   []string
	index   map[string]int
	columns [][]string
	rows    int
}

// New builds a Table from a header and row-major records.
//
// Header names are trimmed. Every record must have exactly len(names) cells.
//
// Returns:
//   - *Table: the table
//   - error: errs.ErrDuplicateColumn for repeated or empty names, errs.ErrInput for ragged rows
func New(names []string, records [][]string) (*Table, error) {
	t := &Table{
		names:   make([]string, len(names)),
		index:   make(map[string]int, len(names)),
		columns: make([][]string, len(names)),
	}

	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", errs.ErrDuplicateColumn, i+1)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateColumn, name)
		}
		t.names[i] = name
		t.index[name] = i
		t.columns[i] = make([]string, 0, len(records))
	}

	for r, rec := range records {
		if len(rec) != len(names) {
			return nil, fmt.Errorf("%w: row %d has %d fields, expected %d", errs.ErrInput, r+1, len(rec), len(names))
		}
		for i, cell := range rec {
			t.columns[i] = append(t.columns[i], cell)
		}
	}
	t.rows = len(records)

	return t, nil
}

// FromFloat64s builds a numeric Table; cols[i] holds the values of names[i].
func FromFloat64s(names []string, cols ...[]float64) (*Table, error) {
	if len(cols) != len(names) {
		return nil, fmt.Errorf("%w: %d names for %d columns", errs.ErrInput, len(names), len(cols))
	}

	rows := 0
	if len(cols) > 0 {
		rows = len(cols[0])
	}
	records := make([][]string, rows)
	for r := range records {
		records[r] = make([]string, len(cols))
		for c, col := range cols {
			if len(col) != rows {
				return nil, fmt.Errorf("%w: column %q has %d values, expected %d", errs.ErrInput, names[c], len(col), rows)
			}
			records[r][c] = strconv.FormatFloat(col[r], 'g', -1, 64)
		}
	}

	return New(names, records)
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Names returns the column names in header order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)

	return out
}

// Column returns the column called name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}

	return Column{name: name, values: t.columns[i]}, true
}

// Column is a read-only view of one table column.
type Column struct {
	name   string
	values []string
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Len returns the number of cells.
func (c Column) Len() int { return len(c.values) }

// Strings returns a copy of the raw cell values with surrounding spaces removed.
func (c Column) Strings() []string {
	out := make([]string, len(c.values))
	for i, v := range c.values {
		out[i] = strings.TrimSpace(v)
	}

	return out
}

// Float64s parses every cell as a float64.
//
// NaN and infinite values are rejected like unparsable cells. Returns errs.ErrNonNumeric
// naming the first offending row (1-based, excluding the header).
func (c Column) Float64s() ([]float64, error) {
	out := make([]float64, len(c.values))
	for i, v := range c.values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: column %q row %d: %q", errs.ErrNonNumeric, c.name, i+1, v)
		}
		out[i] = f
	}

	return out, nil
}
