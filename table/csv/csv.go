/*
Package csv reads and writes tables as CSV documents.

The first record of a document holds the labels of the columns and every
other record holds a row. Cells are converted into column values by the
table.ColumnParser given for their column, and back into cells by the
Formatter given for their column.
*/
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arborml/id3/table"
)

// Error represents an error reading or writing a CSV document.
type Error string

const (
	// ErrInvalidCSV is returned when a document is empty, has no header or
	// has a row whose width differs from the header's.
	ErrInvalidCSV = Error("invalid CSV")
	// ErrSerializerCountMismatch is table.ErrSerializerCountMismatch.
	ErrSerializerCountMismatch = table.ErrSerializerCountMismatch
)

func (e Error) Error() string {
	return string(e)
}

/*
Formatter converts a value of a column into a CSV cell.
*/
type Formatter func(any) string

/*
Reader holds the options to read tables from CSV documents.

Comma is the field delimiter, ',' when left zero. Parsers, when not empty,
must hold a parser per column in header order. ParserFor, used when Parsers
is empty, returns the parser for a label; when nil every column is read with
table.String.
*/
type Reader struct {
	Comma     rune
	Parsers   []table.ColumnParser
	ParserFor func(label string) (table.ColumnParser, error)
}

/*
Writer holds the options to write tables as CSV documents.

Comma is the field delimiter, ',' when left zero. Formatters, when not empty,
must hold a formatter per column in table order; otherwise values are written
with fmt's %v verb.
*/
type Writer struct {
	Comma      rune
	Formatters []Formatter
}

/*
ReadTable takes an io.Reader for a CSV stream, a title and optionally a parser
per column and returns the table read from the stream with the given title.
*/
func ReadTable(r io.Reader, title string, parsers ...table.ColumnParser) (*table.Table, error) {
	return Reader{Parsers: parsers}.Read(r, title)
}

/*
ReadTableFromFilePath takes a filepath string and optionally a parser per column,
opens the file and uses ReadTable to return the table in it, titled after the
file's base name. If the filepath is "" the table is read from os.Stdin.
*/
func ReadTableFromFilePath(path string, parsers ...table.ColumnParser) (*table.Table, error) {
	return Reader{Parsers: parsers}.ReadFile(path)
}

/*
WriteTable takes an io.Writer, a table and optionally a formatter per column
and writes the table to the writer as a CSV document.
*/
func WriteTable(w io.Writer, t *table.Table, formatters ...Formatter) error {
	return Writer{Formatters: formatters}.Write(w, t)
}

// ReadFile is Read on the file at the given path, or os.Stdin if path is "".
func (cr Reader) ReadFile(path string) (*table.Table, error) {
	var f *os.File
	var err error
	title := "stdin"
	if path == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading table: %w", err)
		}
		defer f.Close()
		title = filepath.Base(path)
	}
	t, err := cr.Read(f, title)
	if err != nil {
		if path == "" {
			return nil, fmt.Errorf("parsing CSV from %s: %w", title, err)
		}
		return nil, fmt.Errorf("parsing CSV file %s: %w", path, err)
	}
	return t, nil
}

/*
Read parses the CSV stream on the given reader into a table with the given
title. It fails with ErrInvalidCSV if the stream is empty or a row does not
have as many cells as the header, and with ErrSerializerCountMismatch if
Parsers is not empty and does not hold a parser per column.
*/
func (cr Reader) Read(r io.Reader, title string) (*table.Table, error) {
	cs := csv.NewReader(r)
	if cr.Comma != 0 {
		cs.Comma = cr.Comma
	}
	cs.FieldsPerRecord = -1
	cs.TrimLeadingSpace = true
	header, err := cs.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header: document is empty: %w", ErrInvalidCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %v: %w", err, ErrInvalidCSV)
	}
	parsers, err := cr.parsers(header)
	if err != nil {
		return nil, err
	}
	cells := make([][]string, len(header))
	for l := 2; ; l++ {
		row, err := cs.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %v: %w", l, err, ErrInvalidCSV)
		}
		if len(row) != len(header) {
			return nil, fmt.Errorf("reading line %d: got %d cells for %d columns: %w", l, len(row), len(header), ErrInvalidCSV)
		}
		for i, cell := range row {
			cells[i] = append(cells[i], cell)
		}
	}
	columns := make([]table.Vector, len(header))
	for i, label := range header {
		columns[i], err = parsers[i].ParseColumn(label, cells[i])
		if err != nil {
			return nil, err
		}
	}
	return table.New(title, columns...)
}

func (cr Reader) parsers(header []string) ([]table.ColumnParser, error) {
	if len(cr.Parsers) > 0 {
		if len(cr.Parsers) != len(header) {
			return nil, fmt.Errorf("got %d parsers for %d columns: %w", len(cr.Parsers), len(header), ErrSerializerCountMismatch)
		}
		return cr.Parsers, nil
	}
	parsers := make([]table.ColumnParser, len(header))
	for i, label := range header {
		parsers[i] = table.String
		if cr.ParserFor == nil {
			continue
		}
		p, err := cr.ParserFor(label)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", label, err)
		}
		if p != nil {
			parsers[i] = p
		}
	}
	return parsers, nil
}

/*
Write writes the given table to the given writer as a CSV document. It fails
with ErrSerializerCountMismatch if Formatters is not empty and does not hold a
formatter per column.
*/
func (cw Writer) Write(w io.Writer, t *table.Table) error {
	columns := t.Columns()
	if len(cw.Formatters) > 0 && len(cw.Formatters) != len(columns) {
		return fmt.Errorf("got %d formatters for %d columns: %w", len(cw.Formatters), len(columns), ErrSerializerCountMismatch)
	}
	cs := csv.NewWriter(w)
	if cw.Comma != 0 {
		cs.Comma = cw.Comma
	}
	if err := cs.Write(t.Labels()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	record := make([]string, len(columns))
	for r := 0; r < t.NumRows(); r++ {
		for i, c := range columns {
			if len(cw.Formatters) > 0 {
				record[i] = cw.Formatters[i](c.At(r))
			} else {
				record[i] = fmt.Sprintf("%v", c.At(r))
			}
		}
		if err := cs.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", r+1, err)
		}
	}
	cs.Flush()
	return cs.Error()
}
