package table

import (
	"fmt"
	"strconv"
)

/*
ColumnParser builds a column from the label and the raw string cells read
for it from a text source such as a CSV file or a SQL query.
*/
type ColumnParser interface {
	ParseColumn(label string, cells []string) (Vector, error)
}

/*
ParserFunc converts a single cell into a value of type T. Used as a
ColumnParser it produces a *Column[T].
*/
type ParserFunc[T comparable] func(string) (T, error)

// ParseColumn applies the ParserFunc to every cell and returns a *Column[T].
func (pf ParserFunc[T]) ParseColumn(label string, cells []string) (Vector, error) {
	rows := make([]T, len(cells))
	for i, cell := range cells {
		v, err := pf(cell)
		if err != nil {
			return nil, fmt.Errorf("parsing row %d of column %q: %w", i+1, label, err)
		}
		rows[i] = v
	}
	return newColumn(label, rows), nil
}

var (
	// String keeps cells as they are.
	String ColumnParser = ParserFunc[string](func(s string) (string, error) { return s, nil })
	// Int parses cells as base 10 integers.
	Int ColumnParser = ParserFunc[int](strconv.Atoi)
	// Float parses cells as float64 values.
	Float ColumnParser = ParserFunc[float64](func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
	// Bool parses cells with strconv.ParseBool.
	Bool ColumnParser = ParserFunc[bool](strconv.ParseBool)
)

/*
ParserFor takes the name of a value kind and returns the ColumnParser for it.
Valid kinds are "string", "int", "float" and "bool"; the empty string is
taken as "string".
*/
func ParserFor(kind string) (ColumnParser, error) {
	switch kind {
	case "", "string":
		return String, nil
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "bool":
		return Bool, nil
	}
	return nil, fmt.Errorf("unknown column kind %q", kind)
}
