package timeseries

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrColumnLength indicates a column whose length disagrees with the
	// table.
	ErrColumnLength = errors.New("timeseries: column length must match table rows")
	// ErrNoColumn indicates a reference to a column the table does not have.
	ErrNoColumn = errors.New("timeseries: no such column")
	// ErrRowIndex indicates a row selection outside the table.
	ErrRowIndex = errors.New("timeseries: row index out of range")
)

// Table is a set of named, length-aligned observation columns with
// optional timestamps.
type Table struct {
	Timestamps []time.Time
	names      []string
	columns    map[string][]float64
	rows       int
	hasRows    bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{columns: make(map[string][]float64)}
}

// AddColumn appends a named column. The first column fixes the row count;
// later columns must match it. Adding an existing name replaces the column.
func (t *Table) AddColumn(name string, values []float64) error {
	if t.hasRows && len(values) != t.rows {
		return ErrColumnLength
	}
	if _, ok := t.columns[name]; !ok {
		t.names = append(t.names, name)
	}
	t.columns[name] = values
	t.rows = len(values)
	t.hasRows = true
	return nil
}

// Names returns the column names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Column returns the values of a named column.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoColumn, name)
	}
	return col, nil
}

// Select returns a new table containing the given rows, in order. This is
// how the "good" index partition from the filter package is materialized.
func (t *Table) Select(rows []int) (*Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.rows {
			return nil, ErrRowIndex
		}
	}
	out := NewTable()
	for _, name := range t.names {
		src := t.columns[name]
		col := make([]float64, len(rows))
		for i, r := range rows {
			col[i] = src[r]
		}
		if err := out.AddColumn(name, col); err != nil {
			return nil, err
		}
	}
	if len(t.Timestamps) == t.rows {
		out.Timestamps = make([]time.Time, len(rows))
		for i, r := range rows {
			out.Timestamps[i] = t.Timestamps[r]
		}
	}
	return out, nil
}

// DesignMatrix assembles the named columns into a dense matrix for the
// concomitant model, prepending a constant-one intercept column when
// requested.
func (t *Table) DesignMatrix(intercept bool, cols ...string) (*mat.Dense, error) {
	k := len(cols)
	if intercept {
		k++
	}
	if k == 0 || t.rows == 0 {
		return nil, ErrNoColumn
	}
	x := mat.NewDense(t.rows, k, nil)
	j := 0
	if intercept {
		for i := 0; i < t.rows; i++ {
			x.Set(i, 0, 1)
		}
		j = 1
	}
	for _, name := range cols {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		for i := 0; i < t.rows; i++ {
			x.Set(i, j, col[i])
		}
		j++
	}
	return x, nil
}
