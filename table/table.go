package table

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
)

/*
Table is an ordered collection of columns holding the same number of rows.

Tables are never modified once built. Every sub-table operation returns a
new Table whose columns are new columns, so a sub-table never changes when
its parent is sliced again and vice versa.
*/
type Table struct {
	title   string
	columns []Vector
	numRows int
}

/*
New takes a title and a list of columns and returns a table with them, in the
given order. It returns an error wrapping ErrRowCountMismatch if the columns
do not have the same number of rows, ErrDuplicateColumn if two of them share
a label, or ErrNilColumn if any of them is nil.
*/
func New(title string, columns ...Vector) (*Table, error) {
	t := &Table{title: title, columns: make([]Vector, 0, len(columns))}
	labels := make(map[string]bool, len(columns))
	for i, c := range columns {
		if isNil(c) {
			return nil, fmt.Errorf("building table %q: column %d: %w", title, i, ErrNilColumn)
		}
		if i == 0 {
			t.numRows = c.Len()
		}
		if c.Len() != t.numRows {
			return nil, fmt.Errorf("building table %q: column %q has %d rows, expected %d: %w", title, c.Label(), c.Len(), t.numRows, ErrRowCountMismatch)
		}
		if labels[c.Label()] {
			return nil, fmt.Errorf("building table %q: column %q: %w", title, c.Label(), ErrDuplicateColumn)
		}
		labels[c.Label()] = true
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// isNil reports whether v is nil or holds a nil pointer.
func isNil(v Vector) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Title returns the title of the table.
func (t *Table) Title() string {
	return t.title
}

// Columns returns the columns of the table in order.
func (t *Table) Columns() []Vector {
	columns := make([]Vector, len(t.columns))
	copy(columns, t.columns)
	return columns
}

// Labels returns the labels of the columns of the table in order.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.columns))
	for i, c := range t.columns {
		labels[i] = c.Label()
	}
	return labels
}

// NumRows returns the number of rows of the table.
func (t *Table) NumRows() int {
	return t.numRows
}

// NumCols returns the number of columns of the table.
func (t *Table) NumCols() int {
	return len(t.columns)
}

// NumCells returns the number of cells of the table, rows times columns.
func (t *Table) NumCells() int {
	return t.numRows * len(t.columns)
}

/*
Column takes a label and returns the column of the table with that label or an
error wrapping ErrColumnNotFound.
*/
func (t *Table) Column(label string) (Vector, error) {
	for _, c := range t.columns {
		if c.Label() == label {
			return c, nil
		}
	}
	return nil, fmt.Errorf("table %q: column %q: %w", t.title, label, ErrColumnNotFound)
}

/*
ColumnOf takes a table and a label and returns the column with that label as
a *Column[T]. It fails with ErrColumnNotFound if there is no such column and
with ErrColumnType if it does not hold values of type T.
*/
func ColumnOf[T comparable](t *Table, label string) (*Column[T], error) {
	v, err := t.Column(label)
	if err != nil {
		return nil, err
	}
	c, ok := v.(*Column[T])
	if !ok {
		return nil, fmt.Errorf("table %q: column %q is a %T, not a %T: %w", t.title, label, v, c, ErrColumnType)
	}
	return c, nil
}

/*
SubTable takes a column predicate and returns a new table with only the
columns that satisfy it, in the same order. The number of rows is unchanged.
*/
func (t *Table) SubTable(keep func(Vector) bool) *Table {
	all := t.allIndices()
	result := &Table{title: t.title, numRows: t.numRows}
	for _, c := range t.columns {
		if keep(c) {
			result.columns = append(result.columns, c.Subset(all))
		}
	}
	return result
}

// Without returns a new table with every column but the one with the given label.
func (t *Table) Without(label string) *Table {
	return t.SubTable(func(c Vector) bool { return c.Label() != label })
}

/*
SubTableWhere takes a reference column of the table and a row predicate and
returns a new table with only the rows whose value on the reference column
satisfies the predicate. It fails with ErrColumnNotFound if the reference
column is not one of the columns of the table.
*/
func (t *Table) SubTableWhere(ref Vector, keep func(any) bool) (*Table, error) {
	if !t.has(ref) {
		return nil, fmt.Errorf("table %q: reference column %q: %w", t.title, ref.Label(), ErrColumnNotFound)
	}
	return t.Select(ref.IndicesWhere(keep)), nil
}

/*
Where is SubTableWhere with a typed reference column and predicate.
*/
func Where[T comparable](t *Table, ref *Column[T], keep func(T) bool) (*Table, error) {
	if !t.has(ref) {
		return nil, fmt.Errorf("table %q: reference column %q: %w", t.title, ref.Label(), ErrColumnNotFound)
	}
	return t.Select(ref.SubColumnIndices(keep)), nil
}

/*
Select returns a new table holding only the rows on the given indices, in the
order the indices are given. It panics if an index is out of range.
*/
func (t *Table) Select(indices []int) *Table {
	result := &Table{title: t.title, numRows: len(indices), columns: make([]Vector, len(t.columns))}
	for i, c := range t.columns {
		result.columns[i] = c.Subset(indices)
	}
	return result
}

func (t *Table) String() string {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = fmt.Sprintf("%v", c)
	}
	return fmt.Sprintf("Table[%s, size=%d, cols={%s}]", t.title, t.NumCells(), strings.Join(cols, ", "))
}

/*
Format writes the table to the given writer as aligned text: a line with the
labels followed by a line per row.
*/
func (t *Table) Format(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Labels(), "\t"))
	cells := make([]string, len(t.columns))
	for r := 0; r < t.numRows; r++ {
		for i, c := range t.columns {
			cells[i] = fmt.Sprintf("%v", c.At(r))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func (t *Table) has(ref Vector) bool {
	for _, c := range t.columns {
		if c == ref {
			return true
		}
	}
	return false
}

func (t *Table) allIndices() []int {
	indices := make([]int, t.numRows)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
