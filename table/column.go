package table

import (
	"fmt"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/linkedhashset"
)

/*
Vector is the type-erased view of a column that a Table holds.

Label returns the name of the column and Len its number of rows. At returns
the value on the given row. Distinct returns the different values found on the
column in the order they were first found. IndicesWhere returns the indices of
the rows whose value satisfies the given predicate, in row order. Subset returns
a new vector with only the rows on the given indices.
*/
type Vector interface {
	Label() string
	Len() int
	At(i int) any
	Distinct() []any
	IndicesWhere(keep func(any) bool) []int
	Subset(indices []int) Vector
}

/*
Column is a labeled sequence of values of type T, one per table row.

A Column never changes once built: every operation that filters it returns
a new Column with its own storage.
*/
type Column[T comparable] struct {
	label  string
	rows   []T
	values *linkedhashset.Set
}

/*
NewColumn takes a label and a slice of rows and returns a column with a copy
of the rows.
*/
func NewColumn[T comparable](label string, rows []T) *Column[T] {
	owned := make([]T, len(rows))
	copy(owned, rows)
	return newColumn(label, owned)
}

func newColumn[T comparable](label string, rows []T) *Column[T] {
	c := &Column[T]{label: label, rows: rows, values: linkedhashset.New()}
	for _, r := range rows {
		c.values.Add(r)
	}
	return c
}

// Label returns the label of the column.
func (c *Column[T]) Label() string {
	return c.label
}

// Len returns the number of rows in the column.
func (c *Column[T]) Len() int {
	return len(c.rows)
}

// Row returns the value on the i-th row.
func (c *Column[T]) Row(i int) T {
	return c.rows[i]
}

// At returns the value on the i-th row.
func (c *Column[T]) At(i int) any {
	return c.rows[i]
}

// Rows returns a copy of the values of the column in row order.
func (c *Column[T]) Rows() []T {
	rows := make([]T, len(c.rows))
	copy(rows, c.rows)
	return rows
}

/*
Values returns the different values appearing on the column in the order in
which they first appear.
*/
func (c *Column[T]) Values() []T {
	values := make([]T, 0, c.values.Size())
	for _, v := range c.values.Values() {
		values = append(values, v.(T))
	}
	return values
}

// Distinct returns the result of Values as a slice of any.
func (c *Column[T]) Distinct() []any {
	return c.values.Values()
}

// Contains returns whether v appears on any row of the column.
func (c *Column[T]) Contains(v T) bool {
	return c.values.Contains(v)
}

/*
Count takes a set of values and returns how many rows hold each of them.
Rows holding values outside the set are ignored, and values in the set
that no row holds are left out of the result.
*/
func (c *Column[T]) Count(values ...T) map[T]int {
	set := hashset.New()
	for _, v := range values {
		set.Add(v)
	}
	result := make(map[T]int)
	for _, r := range c.rows {
		if set.Contains(r) {
			result[r]++
		}
	}
	return result
}

// Counts returns how many rows hold each of the values of the column.
func (c *Column[T]) Counts() map[T]int {
	result := make(map[T]int, c.values.Size())
	for _, r := range c.rows {
		result[r]++
	}
	return result
}

/*
Distribution takes a set of values and returns the share of each of them among
the rows that hold any of them. It is normalized over the matched rows, not
over the rows of the column, so its values add up to 1 unless no row matches,
in which case the result is empty.
*/
func (c *Column[T]) Distribution(values ...T) map[T]float64 {
	counts := c.Count(values...)
	var total int
	for _, n := range counts {
		total += n
	}
	result := make(map[T]float64, len(counts))
	for v, n := range counts {
		result[v] = float64(n) / float64(total)
	}
	return result
}

/*
SubColumnIndices returns the indices of the rows whose value satisfies the
given predicate, in row order.
*/
func (c *Column[T]) SubColumnIndices(keep func(T) bool) []int {
	indices := []int{}
	for i, r := range c.rows {
		if keep(r) {
			indices = append(indices, i)
		}
	}
	return indices
}

// IndicesWhere is SubColumnIndices on type-erased values.
func (c *Column[T]) IndicesWhere(keep func(any) bool) []int {
	return c.SubColumnIndices(func(v T) bool { return keep(v) })
}

/*
SubColumn returns a new column with the same label holding only the rows on
the given indices, in the order the indices are given. It panics if an index
is out of range.
*/
func (c *Column[T]) SubColumn(indices []int) *Column[T] {
	rows := make([]T, len(indices))
	for i, idx := range indices {
		rows[i] = c.rows[idx]
	}
	return newColumn(c.label, rows)
}

// Subset is SubColumn returning a Vector.
func (c *Column[T]) Subset(indices []int) Vector {
	return c.SubColumn(indices)
}

func (c *Column[T]) String() string {
	return fmt.Sprintf("Column[%s, rows=%d, values=%v]", c.label, len(c.rows), c.Values())
}
